package domain

import "time"

// LessonPlan is the stored plan for one session of a chapter.
type LessonPlan struct {
	ID             string
	SchemeID       string
	ChapterNumber  int
	SessionNumber  int
	SessionName    string
	TeacherID      string
	Class          string
	Subject        string
	Status         PlanStatus
	PlanStatusNote string
	PlannedDate    *string
	PlannedPeriod  *string
	OriginalDate   *string
	OriginalPeriod *string
	IsExtended     bool
	DurationMin    int
	Fields         PlanFields
	ReviewComment  string
	ReportedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Displaced reports whether the plan was moved off its original assignment.
func (p *LessonPlan) Displaced() bool {
	return p.OriginalDate != nil || p.OriginalPeriod != nil
}

// MoveTo reassigns the plan's date and period, remembering the first
// assignment it was displaced from.
func (p *LessonPlan) MoveTo(date, period string, note string, now time.Time) {
	if !p.Displaced() {
		p.OriginalDate = p.PlannedDate
		p.OriginalPeriod = p.PlannedPeriod
	}
	d, per := date, period
	p.PlannedDate = &d
	p.PlannedPeriod = &per
	if p.Status != PlanReported {
		p.Status = PlanCascaded
	}
	p.PlanStatusNote = note
	p.UpdatedAt = now
}
