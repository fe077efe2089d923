package app

import (
	"context"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// SchemeSource returns the teacher's schemes with full or sparse detail.
type SchemeSource interface {
	LoadSchemes(ctx context.Context, teacherID string) (*domain.SchemeLoadPayload, error)
}

type PeriodQuery struct {
	TeacherID       string
	Scope           domain.Scope
	From            time.Time
	To              time.Time
	ExcludeOccupied bool
}

// PeriodSource lists candidate teaching periods for one class+subject.
type PeriodSource interface {
	Periods(ctx context.Context, q PeriodQuery) ([]domain.CandidateSlot, error)
}

// ExamSource lists the exam calendar for one class+subject.
type ExamSource interface {
	Exams(ctx context.Context, scope domain.Scope) ([]domain.ExamRecord, error)
}

// PlanDraft is one session's plan as submitted to the writer.
type PlanDraft struct {
	SessionNumber int
	SessionName   string
	Date          string
	Period        string
	IsExtended    bool
	DurationMin   int
	Fields        domain.PlanFields
}

type SinglePlanRequest struct {
	TeacherID     string
	SchemeID      string
	Scope         domain.Scope
	ChapterNumber int
	Draft         PlanDraft
}

type BulkPlanRequest struct {
	TeacherID     string
	SchemeID      string
	Scope         domain.Scope
	ChapterNumber int
	Extended      bool
	Drafts        []PlanDraft
}

// PlanResult is the writer's answer. CreatedCount is optional on the wire.
type PlanResult struct {
	Success      bool
	CreatedCount *int
	PlanIDs      []string
	Message      string
}

// PlanWriter creates lesson plans. CreateBulk is all-or-nothing.
type PlanWriter interface {
	CreateSingle(ctx context.Context, req SinglePlanRequest) (*PlanResult, error)
	CreateBulk(ctx context.Context, req BulkPlanRequest) (*PlanResult, error)
}

type SuggestionRequest struct {
	Scope         domain.Scope
	SchemeID      string
	ChapterNumber int
	ChapterName   string
	SessionNumber int
	SessionName   string
	DurationMin   int
}

// SuggestionSource proposes free-text plan fields. It is optional.
type SuggestionSource interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*domain.PlanFields, error)
}
