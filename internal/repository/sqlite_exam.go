package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

type SQLiteExamRepo struct {
	db db.DBTX
}

func NewSQLiteExamRepo(conn db.DBTX) *SQLiteExamRepo {
	return &SQLiteExamRepo{db: conn}
}

const examColumns = `id, date, period, exam_type, name, class, subject`

func (r *SQLiteExamRepo) Create(ctx context.Context, e *domain.ExamRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exams (`+examColumns+`, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, domain.NormalizeDate(e.Date), nullableString(e.Period), e.ExamType, e.Name, e.Class, e.Subject,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("inserting exam: %w", err)
	}
	return nil
}

func (r *SQLiteExamRepo) List(ctx context.Context) ([]*domain.ExamRecord, error) {
	return r.list(ctx, `SELECT `+examColumns+` FROM exams ORDER BY date, period`)
}

func (r *SQLiteExamRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]*domain.ExamRecord, error) {
	return r.list(ctx,
		`SELECT `+examColumns+` FROM exams
		WHERE class = ? COLLATE NOCASE AND subject = ? COLLATE NOCASE
		ORDER BY date, period`,
		scope.Class, scope.Subject)
}

func (r *SQLiteExamRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exam: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exam %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteExamRepo) list(ctx context.Context, query string, args ...any) ([]*domain.ExamRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing exams: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExamRecord
	for rows.Next() {
		var e domain.ExamRecord
		var period sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &period, &e.ExamType, &e.Name, &e.Class, &e.Subject); err != nil {
			return nil, fmt.Errorf("scanning exam: %w", err)
		}
		e.Period = stringPtr(period)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exams: %w", err)
	}
	return out, nil
}
