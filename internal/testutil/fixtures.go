package testutil

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/google/uuid"
)

const TestTeacherID = "teacher-1"

// Scheme options
type SchemeOption func(*domain.SchemeDef)

func WithTeacher(id string) SchemeOption {
	return func(s *domain.SchemeDef) {
		s.TeacherID = id
	}
}

func WithTerm(year, term string) SchemeOption {
	return func(s *domain.SchemeDef) {
		s.AcademicYear = year
		s.Term = term
	}
}

func NewTestScheme(class, subject string, opts ...SchemeOption) *domain.SchemeDef {
	now := time.Now().UTC()
	s := &domain.SchemeDef{
		ID:           uuid.New().String(),
		TeacherID:    TestTeacherID,
		Class:        class,
		Subject:      subject,
		AcademicYear: "2025",
		Term:         "Term 3",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestChapter(schemeID string, number, totalSessions int) *domain.ChapterDef {
	return &domain.ChapterDef{
		SchemeID:      schemeID,
		Number:        number,
		Name:          "Chapter " + string(rune('A'+number-1)),
		TotalSessions: totalSessions,
	}
}

// LessonPlan options
type PlanOption func(*domain.LessonPlan)

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.LessonPlan) {
		p.Status = s
		if s == domain.PlanReported {
			now := time.Now().UTC()
			p.ReportedAt = &now
		}
	}
}

func WithSlot(date, period string) PlanOption {
	return func(p *domain.LessonPlan) {
		p.PlannedDate = &date
		p.PlannedPeriod = &period
	}
}

func WithOriginalSlot(date, period string) PlanOption {
	return func(p *domain.LessonPlan) {
		p.OriginalDate = &date
		p.OriginalPeriod = &period
	}
}

func WithExtended() PlanOption {
	return func(p *domain.LessonPlan) {
		p.IsExtended = true
	}
}

func WithPlanTeacher(id string) PlanOption {
	return func(p *domain.LessonPlan) {
		p.TeacherID = id
	}
}

// NewTestPlan builds a pending plan for one session of the scheme's chapter.
// Without WithSlot it has no period assigned.
func NewTestPlan(scheme *domain.SchemeDef, chapter, session int, opts ...PlanOption) *domain.LessonPlan {
	now := time.Now().UTC()
	p := &domain.LessonPlan{
		ID:            uuid.New().String(),
		SchemeID:      scheme.ID,
		ChapterNumber: chapter,
		SessionNumber: session,
		SessionName:   domain.DefaultSessionName(session),
		TeacherID:     scheme.TeacherID,
		Class:         scheme.Class,
		Subject:       scheme.Subject,
		Status:        domain.PlanPendingReview,
		DurationMin:   40,
		Fields:        domain.PlanFields{Objectives: "Objectives", Methods: "Methods"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestSlot(weekday time.Weekday, period, class, subject string) *domain.TimetableSlot {
	return &domain.TimetableSlot{
		ID:        uuid.New().String(),
		TeacherID: TestTeacherID,
		Weekday:   weekday,
		Period:    period,
		StartTime: "08:00",
		EndTime:   "08:40",
		Class:     class,
		Subject:   subject,
	}
}

func NewTestExam(date string, period *string, class, subject string) *domain.ExamRecord {
	return &domain.ExamRecord{
		ID:       uuid.New().String(),
		Date:     date,
		Period:   period,
		ExamType: "Test",
		Name:     "Unit test",
		Class:    class,
		Subject:  subject,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
