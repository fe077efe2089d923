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

type SQLiteChapterRepo struct {
	db db.DBTX
}

func NewSQLiteChapterRepo(conn db.DBTX) *SQLiteChapterRepo {
	return &SQLiteChapterRepo{db: conn}
}

const chapterColumns = `scheme_id, number, name, total_sessions, completed, completed_at`

// Upsert inserts the chapter or updates its name and session count. The
// completion marker is never cleared by an upsert.
func (r *SQLiteChapterRepo) Upsert(ctx context.Context, c *domain.ChapterDef) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chapters (`+chapterColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(scheme_id, number) DO UPDATE SET
			name = excluded.name,
			total_sessions = excluded.total_sessions`,
		c.SchemeID, c.Number, c.Name, c.TotalSessions, boolToInt(c.Completed), nullableTime(c.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting chapter %d: %w", c.Number, err)
	}
	return nil
}

func (r *SQLiteChapterRepo) Get(ctx context.Context, schemeID string, number int) (*domain.ChapterDef, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE scheme_id = ? AND number = ?`, schemeID, number)
	return scanChapter(row)
}

func (r *SQLiteChapterRepo) ListByScheme(ctx context.Context, schemeID string) ([]*domain.ChapterDef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE scheme_id = ? ORDER BY number`, schemeID)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	defer rows.Close()

	var out []*domain.ChapterDef
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}
	return out, nil
}

func (r *SQLiteChapterRepo) MarkCompleted(ctx context.Context, schemeID string, number int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE chapters SET completed = 1, completed_at = ? WHERE scheme_id = ? AND number = ?`,
		formatTime(at), schemeID, number)
	if err != nil {
		return fmt.Errorf("marking chapter %d complete: %w", number, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chapter %d: %w", number, ErrNotFound)
	}
	return nil
}

func scanChapter(row rowScanner) (*domain.ChapterDef, error) {
	var c domain.ChapterDef
	var completed int
	var completedAt sql.NullString
	err := row.Scan(&c.SchemeID, &c.Number, &c.Name, &c.TotalSessions, &completed, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chapter: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning chapter: %w", err)
	}
	c.Completed = intToBool(completed)
	c.CompletedAt = parseNullableTime(completedAt)
	return &c, nil
}
