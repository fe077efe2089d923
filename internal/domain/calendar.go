package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ExamRecord is one entry of the exam calendar feed.
type ExamRecord struct {
	ID       string  `json:"id,omitempty"`
	Date     string  `json:"date"`
	Period   *string `json:"period,omitempty"`
	ExamType string  `json:"examType,omitempty"`
	Name     string  `json:"name,omitempty"`
	Class    string  `json:"class"`
	Subject  string  `json:"subject"`
}

// Label is a short description used in conflict messages.
func (e ExamRecord) Label() string {
	name := CoalesceStr(e.Name, e.ExamType, "Exam")
	if e.Period != nil && *e.Period != "" {
		return fmt.Sprintf("%s (period %s)", name, *e.Period)
	}
	return name
}

// CandidateSlot is a teaching period offered by the period-availability source.
type CandidateSlot struct {
	Date        string `json:"date"`
	Period      string `json:"period"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	IsOccupied  bool   `json:"isOccupied"`
	Class       string `json:"class"`
	Subject     string `json:"subject"`
}

// Conflict is the exam-calendar verdict for one slot.
type Conflict struct {
	Level ConflictLevel
	Exams []ExamRecord
}

// Message renders the conflict for display; empty when there is none.
func (c Conflict) Message() string {
	if c.Level == ConflictNone || len(c.Exams) == 0 {
		return ""
	}
	labels := make([]string, 0, len(c.Exams))
	for _, e := range c.Exams {
		labels = append(labels, e.Label())
	}
	switch c.Level {
	case ConflictHard:
		return "Exam in this period: " + strings.Join(labels, ", ")
	default:
		return "Exam on this day: " + strings.Join(labels, ", ")
	}
}

// AnnotatedSlot is a candidate slot with its exam conflict verdict.
type AnnotatedSlot struct {
	CandidateSlot
	Conflict Conflict
}

// Selectable reports whether the slot may be picked for a new plan.
func (s AnnotatedSlot) Selectable() bool {
	return s.IsAvailable && !s.IsOccupied && s.Conflict.Level != ConflictHard
}

// PlanningWindow bounds the dates a teacher may plan into and optionally
// restricts the day of the week on which plans may be submitted.
type PlanningWindow struct {
	Start         time.Time
	End           time.Time
	SubmissionDay *time.Weekday
}

// SubmissionAllowed reports whether a plan may be created at now.
func (w PlanningWindow) SubmissionAllowed(now time.Time) bool {
	if w.SubmissionDay == nil {
		return true
	}
	return now.Weekday() == *w.SubmissionDay
}

// ParseWeekday accepts "Friday", "fri", or "5".
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if key == name || key == name[:3] || key == fmt.Sprint(int(d)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// NormalizeDate reduces "2025-11-10", "2025-11-10T00:00:00Z" and similar to
// YYYY-MM-DD. Unparseable input is returned trimmed.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// NormalizePeriod reduces "Period 3", "P3" and " 3 " to "3".
func NormalizePeriod(s string) string {
	p := strings.ToLower(strings.TrimSpace(s))
	p = strings.TrimPrefix(p, "period")
	p = strings.TrimPrefix(p, "p")
	return strings.TrimSpace(p)
}

// SameScope compares class+subject labels case-insensitively.
func SameScope(a, b Scope) bool {
	return strings.EqualFold(strings.TrimSpace(a.Class), strings.TrimSpace(b.Class)) &&
		strings.EqualFold(strings.TrimSpace(a.Subject), strings.TrimSpace(b.Subject))
}
