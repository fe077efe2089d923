package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

// SQLiteSettingsRepo reads and writes the singleton settings row seeded by the
// migrations.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var (
		s                      domain.Settings
		bulkOnly               int
		windowStart, windowEnd sql.NullString
		submissionDay          sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT bulk_only, window_start, window_end, submission_day FROM settings WHERE id = 1`,
	).Scan(&bulkOnly, &windowStart, &windowEnd, &submissionDay)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	s.BulkOnly = intToBool(bulkOnly)
	s.WindowStart = parseNullableDate(windowStart)
	s.WindowEnd = parseNullableDate(windowEnd)
	if submissionDay.Valid {
		d := time.Weekday(submissionDay.Int64)
		s.SubmissionDay = &d
	}
	return &s, nil
}

func (r *SQLiteSettingsRepo) Update(ctx context.Context, s *domain.Settings) error {
	var day any
	if s.SubmissionDay != nil {
		day = int(*s.SubmissionDay)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET bulk_only = ?, window_start = ?, window_end = ?, submission_day = ? WHERE id = 1`,
		boolToInt(s.BulkOnly), nullableDate(s.WindowStart), nullableDate(s.WindowEnd), day,
	)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return nil
}
