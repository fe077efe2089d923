package domain

import "time"

// Settings are the stored planning policies.
type Settings struct {
	BulkOnly      bool
	WindowStart   *time.Time
	WindowEnd     *time.Time
	SubmissionDay *time.Weekday
}

// DefaultWindowDays is the planning horizon used when no window is stored.
const DefaultWindowDays = 28

// Window resolves the stored settings into a concrete planning window.
func (s Settings) Window(now time.Time) PlanningWindow {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	w := PlanningWindow{Start: today, End: today.AddDate(0, 0, DefaultWindowDays), SubmissionDay: s.SubmissionDay}
	if s.WindowStart != nil {
		w.Start = *s.WindowStart
	}
	if s.WindowEnd != nil {
		w.End = *s.WindowEnd
	}
	return w
}
