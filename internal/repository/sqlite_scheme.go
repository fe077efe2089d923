package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

type SQLiteSchemeRepo struct {
	db db.DBTX
}

func NewSQLiteSchemeRepo(conn db.DBTX) *SQLiteSchemeRepo {
	return &SQLiteSchemeRepo{db: conn}
}

const schemeColumns = `id, teacher_id, class, subject, academic_year, term, created_at, updated_at`

func (r *SQLiteSchemeRepo) Create(ctx context.Context, s *domain.SchemeDef) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schemes (`+schemeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TeacherID, s.Class, s.Subject, s.AcademicYear, s.Term,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting scheme: %w", err)
	}
	return nil
}

func (r *SQLiteSchemeRepo) GetByID(ctx context.Context, id string) (*domain.SchemeDef, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+schemeColumns+` FROM schemes WHERE id = ?`, id)
	return scanScheme(row)
}

func (r *SQLiteSchemeRepo) FindByKey(ctx context.Context, teacherID, class, subject, academicYear, term string) (*domain.SchemeDef, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+schemeColumns+` FROM schemes
		WHERE teacher_id = ? AND class = ? AND subject = ? AND academic_year = ? AND term = ?`,
		teacherID, class, subject, academicYear, term)
	return scanScheme(row)
}

func (r *SQLiteSchemeRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*domain.SchemeDef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+schemeColumns+` FROM schemes WHERE teacher_id = ? ORDER BY class, subject, academic_year, term`,
		teacherID)
	if err != nil {
		return nil, fmt.Errorf("listing schemes: %w", err)
	}
	defer rows.Close()

	var out []*domain.SchemeDef
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schemes: %w", err)
	}
	return out, nil
}

func (r *SQLiteSchemeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schemes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scheme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scheme %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheme(row rowScanner) (*domain.SchemeDef, error) {
	var s domain.SchemeDef
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.TeacherID, &s.Class, &s.Subject, &s.AcademicYear, &s.Term, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scheme: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scheme: %w", err)
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}
