package service

import (
	"context"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/importer"
)

// LessonPlanService moves stored plans through review, delivery,
// cancellation and rescheduling.
type LessonPlanService interface {
	GetByID(ctx context.Context, id string) (*domain.LessonPlan, error)
	ListByScheme(ctx context.Context, schemeID string) ([]*domain.LessonPlan, error)
	Review(ctx context.Context, id string, approve bool, comment string) (*domain.LessonPlan, error)
	Report(ctx context.Context, id string, markChapterComplete bool) (*domain.LessonPlan, error)
	Cancel(ctx context.Context, id string) (*domain.LessonPlan, error)
	Reschedule(ctx context.Context, id, date, period string) (*domain.LessonPlan, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	SetBulkOnly(ctx context.Context, on bool) (*domain.Settings, error)
	// SetWindow stores the planning window; nil bounds fall back to the
	// rolling default.
	SetWindow(ctx context.Context, start, end *time.Time) (*domain.Settings, error)
	SetSubmissionDay(ctx context.Context, day *time.Weekday) (*domain.Settings, error)
}

type ExamService interface {
	Add(ctx context.Context, e *domain.ExamRecord) error
	// List returns every exam, or only scope's when scope is non-nil.
	List(ctx context.Context, scope *domain.Scope) ([]*domain.ExamRecord, error)
	Delete(ctx context.Context, id string) error
}

type TimetableService interface {
	Add(ctx context.Context, s *domain.TimetableSlot) error
	List(ctx context.Context, teacherID string) ([]*domain.TimetableSlot, error)
	Delete(ctx context.Context, id string) error
}

// ImportResult counts what one curriculum import stored.
type ImportResult struct {
	Schemes        []*domain.SchemeDef
	ChapterCount   int
	TimetableCount int
	ExamCount      int
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	Import(ctx context.Context, file *importer.CurriculumFile) (*ImportResult, error)
}
