package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

type SQLiteLessonPlanRepo struct {
	db db.DBTX
}

func NewSQLiteLessonPlanRepo(conn db.DBTX) *SQLiteLessonPlanRepo {
	return &SQLiteLessonPlanRepo{db: conn}
}

const lessonPlanColumns = `id, scheme_id, chapter_number, session_number, session_name, teacher_id,
	class, subject, status, plan_status_note, planned_date, planned_period, original_date,
	original_period, is_extended, duration_min, objectives, methods, resources, assessment,
	review_comment, reported_at, created_at, updated_at`

func (r *SQLiteLessonPlanRepo) Create(ctx context.Context, p *domain.LessonPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lesson_plans (`+lessonPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SchemeID, p.ChapterNumber, p.SessionNumber, p.SessionName, p.TeacherID,
		p.Class, p.Subject, string(p.Status), p.PlanStatusNote,
		nullableString(p.PlannedDate), nullableString(p.PlannedPeriod),
		nullableString(p.OriginalDate), nullableString(p.OriginalPeriod),
		boolToInt(p.IsExtended), p.DurationMin,
		p.Fields.Objectives, p.Fields.Methods, p.Fields.Resources, p.Fields.Assessment,
		p.ReviewComment, nullableTime(p.ReportedAt), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting lesson plan for session %d: %w", p.SessionNumber, uniqueCause(err))
		}
		return fmt.Errorf("inserting lesson plan: %w", err)
	}
	return nil
}

func (r *SQLiteLessonPlanRepo) GetByID(ctx context.Context, id string) (*domain.LessonPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lessonPlanColumns+` FROM lesson_plans WHERE id = ?`, id)
	return scanLessonPlan(row)
}

func (r *SQLiteLessonPlanRepo) Update(ctx context.Context, p *domain.LessonPlan) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lesson_plans SET
			session_name = ?, status = ?, plan_status_note = ?,
			planned_date = ?, planned_period = ?, original_date = ?, original_period = ?,
			is_extended = ?, duration_min = ?,
			objectives = ?, methods = ?, resources = ?, assessment = ?,
			review_comment = ?, reported_at = ?, updated_at = ?
		WHERE id = ?`,
		p.SessionName, string(p.Status), p.PlanStatusNote,
		nullableString(p.PlannedDate), nullableString(p.PlannedPeriod),
		nullableString(p.OriginalDate), nullableString(p.OriginalPeriod),
		boolToInt(p.IsExtended), p.DurationMin,
		p.Fields.Objectives, p.Fields.Methods, p.Fields.Resources, p.Fields.Assessment,
		p.ReviewComment, nullableTime(p.ReportedAt), formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("updating lesson plan %s: %w", p.ID, uniqueCause(err))
		}
		return fmt.Errorf("updating lesson plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lesson plan %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// ListByScheme returns every stored plan of the scheme, rejected ones included,
// ordered by chapter, session, and creation.
func (r *SQLiteLessonPlanRepo) ListByScheme(ctx context.Context, schemeID string) ([]*domain.LessonPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lessonPlanColumns+` FROM lesson_plans
		WHERE scheme_id = ?
		ORDER BY chapter_number, session_number, created_at`, schemeID)
	if err != nil {
		return nil, fmt.Errorf("listing lesson plans: %w", err)
	}
	defer rows.Close()
	return scanLessonPlans(rows)
}

func (r *SQLiteLessonPlanRepo) LiveForSession(ctx context.Context, ref domain.SessionRef) (*domain.LessonPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lessonPlanColumns+` FROM lesson_plans
		WHERE scheme_id = ? AND chapter_number = ? AND session_number = ? AND status <> 'Rejected'`,
		ref.SchemeID, ref.ChapterNumber, ref.SessionNumber)
	return scanLessonPlan(row)
}

func (r *SQLiteLessonPlanRepo) LiveAtSlot(ctx context.Context, teacherID, date, period string) (*domain.LessonPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lessonPlanColumns+` FROM lesson_plans
		WHERE teacher_id = ? AND planned_date = ? AND planned_period = ?
		  AND status NOT IN ('Rejected', 'Cancelled')`,
		teacherID, date, period)
	return scanLessonPlan(row)
}

func (r *SQLiteLessonPlanRepo) ListOccupying(ctx context.Context, teacherID, from, to string) ([]*domain.LessonPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lessonPlanColumns+` FROM lesson_plans
		WHERE teacher_id = ? AND planned_date BETWEEN ? AND ?
		  AND status NOT IN ('Rejected', 'Cancelled')
		ORDER BY planned_date, planned_period`, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing occupied periods: %w", err)
	}
	defer rows.Close()
	return scanLessonPlans(rows)
}

// uniqueCause tells the two live-plan indexes apart by the columns SQLite
// names in the violation.
func uniqueCause(err error) error {
	if strings.Contains(err.Error(), "session_number") {
		return ErrSessionPlanned
	}
	return ErrSlotTaken
}

func scanLessonPlan(row rowScanner) (*domain.LessonPlan, error) {
	var (
		p                            domain.LessonPlan
		status                       string
		plannedDate, plannedPeriod   sql.NullString
		originalDate, originalPeriod sql.NullString
		isExtended                   int
		reportedAt                   sql.NullString
		createdAt, updatedAt         string
	)
	err := row.Scan(
		&p.ID, &p.SchemeID, &p.ChapterNumber, &p.SessionNumber, &p.SessionName, &p.TeacherID,
		&p.Class, &p.Subject, &status, &p.PlanStatusNote, &plannedDate, &plannedPeriod, &originalDate,
		&originalPeriod, &isExtended, &p.DurationMin, &p.Fields.Objectives, &p.Fields.Methods,
		&p.Fields.Resources, &p.Fields.Assessment, &p.ReviewComment, &reportedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lesson plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning lesson plan: %w", err)
	}
	p.Status = domain.PlanStatus(status)
	p.PlannedDate = stringPtr(plannedDate)
	p.PlannedPeriod = stringPtr(plannedPeriod)
	p.OriginalDate = stringPtr(originalDate)
	p.OriginalPeriod = stringPtr(originalPeriod)
	p.IsExtended = intToBool(isExtended)
	p.ReportedAt = parseNullableTime(reportedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func scanLessonPlans(rows *sql.Rows) ([]*domain.LessonPlan, error) {
	var out []*domain.LessonPlan
	for rows.Next() {
		p, err := scanLessonPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lesson plans: %w", err)
	}
	return out, nil
}
