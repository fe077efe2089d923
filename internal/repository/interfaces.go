package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken is returned when a live plan already holds the period.
	ErrSlotTaken = errors.New("period already holds a live plan")
	// ErrSessionPlanned is returned when the session already has a live plan.
	ErrSessionPlanned = errors.New("session already has a live plan")
)

type SchemeRepo interface {
	Create(ctx context.Context, s *domain.SchemeDef) error
	GetByID(ctx context.Context, id string) (*domain.SchemeDef, error)
	FindByKey(ctx context.Context, teacherID, class, subject, academicYear, term string) (*domain.SchemeDef, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*domain.SchemeDef, error)
	Delete(ctx context.Context, id string) error
}

type ChapterRepo interface {
	Upsert(ctx context.Context, c *domain.ChapterDef) error
	Get(ctx context.Context, schemeID string, number int) (*domain.ChapterDef, error)
	ListByScheme(ctx context.Context, schemeID string) ([]*domain.ChapterDef, error)
	MarkCompleted(ctx context.Context, schemeID string, number int, at time.Time) error
}

type LessonPlanRepo interface {
	Create(ctx context.Context, p *domain.LessonPlan) error
	GetByID(ctx context.Context, id string) (*domain.LessonPlan, error)
	Update(ctx context.Context, p *domain.LessonPlan) error
	ListByScheme(ctx context.Context, schemeID string) ([]*domain.LessonPlan, error)
	// LiveForSession returns the session's plan that is not rejected.
	LiveForSession(ctx context.Context, ref domain.SessionRef) (*domain.LessonPlan, error)
	// LiveAtSlot returns the plan holding the teacher's period, if any.
	LiveAtSlot(ctx context.Context, teacherID, date, period string) (*domain.LessonPlan, error)
	// ListOccupying lists plans holding the teacher's periods between from and
	// to (inclusive, YYYY-MM-DD).
	ListOccupying(ctx context.Context, teacherID, from, to string) ([]*domain.LessonPlan, error)
}

type TimetableRepo interface {
	Create(ctx context.Context, s *domain.TimetableSlot) error
	ListByTeacher(ctx context.Context, teacherID string) ([]*domain.TimetableSlot, error)
	ListForScope(ctx context.Context, teacherID string, scope domain.Scope) ([]*domain.TimetableSlot, error)
	Delete(ctx context.Context, id string) error
}

type ExamRepo interface {
	Create(ctx context.Context, e *domain.ExamRecord) error
	List(ctx context.Context) ([]*domain.ExamRecord, error)
	ListByScope(ctx context.Context, scope domain.Scope) ([]*domain.ExamRecord, error)
	Delete(ctx context.Context, id string) error
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) error
}
