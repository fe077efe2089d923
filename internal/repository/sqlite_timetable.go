package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

type SQLiteTimetableRepo struct {
	db db.DBTX
}

func NewSQLiteTimetableRepo(conn db.DBTX) *SQLiteTimetableRepo {
	return &SQLiteTimetableRepo{db: conn}
}

const timetableColumns = `id, teacher_id, weekday, period, start_time, end_time, class, subject`

func (r *SQLiteTimetableRepo) Create(ctx context.Context, s *domain.TimetableSlot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timetable_slots (`+timetableColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TeacherID, int(s.Weekday), s.Period, s.StartTime, s.EndTime, s.Class, s.Subject,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timetable slot %s period %s: %w", s.Weekday, s.Period, ErrSlotTaken)
		}
		return fmt.Errorf("inserting timetable slot: %w", err)
	}
	return nil
}

func (r *SQLiteTimetableRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*domain.TimetableSlot, error) {
	return r.list(ctx,
		`SELECT `+timetableColumns+` FROM timetable_slots WHERE teacher_id = ? ORDER BY weekday, period`,
		teacherID)
}

func (r *SQLiteTimetableRepo) ListForScope(ctx context.Context, teacherID string, scope domain.Scope) ([]*domain.TimetableSlot, error) {
	return r.list(ctx,
		`SELECT `+timetableColumns+` FROM timetable_slots
		WHERE teacher_id = ? AND class = ? COLLATE NOCASE AND subject = ? COLLATE NOCASE
		ORDER BY weekday, period`,
		teacherID, scope.Class, scope.Subject)
}

func (r *SQLiteTimetableRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timetable slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("timetable slot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTimetableRepo) list(ctx context.Context, query string, args ...any) ([]*domain.TimetableSlot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing timetable slots: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimetableSlot
	for rows.Next() {
		var s domain.TimetableSlot
		var weekday int
		if err := rows.Scan(&s.ID, &s.TeacherID, &weekday, &s.Period, &s.StartTime, &s.EndTime, &s.Class, &s.Subject); err != nil {
			return nil, fmt.Errorf("scanning timetable slot: %w", err)
		}
		s.Weekday = time.Weekday(weekday)
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timetable slots: %w", err)
	}
	return out, nil
}
