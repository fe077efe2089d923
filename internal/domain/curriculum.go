package domain

import "fmt"

// Scheme is one class+subject+term curriculum unit as reconstructed for a
// single load cycle. The tree is replaced wholesale on reload.
type Scheme struct {
	ID              string
	Class           string
	Subject         string
	AcademicYear    string
	Term            string
	TotalSessions   int
	PlannedSessions int
	OverallProgress float64
	// DetailLoaded is false when the source sent only coarse totals.
	DetailLoaded bool
	Chapters     []Chapter
}

// Scope returns the class+subject pair that owns the scheme's periods and exams.
func (s *Scheme) Scope() Scope {
	return Scope{Class: s.Class, Subject: s.Subject}
}

// Chapter looks up a chapter by number.
func (s *Scheme) Chapter(number int) (*Chapter, bool) {
	for i := range s.Chapters {
		if s.Chapters[i].Number == number {
			return &s.Chapters[i], true
		}
	}
	return nil, false
}

type Chapter struct {
	Number           int
	Name             string
	TotalSessions    int
	PlannedSessions  int
	NumberOfSessions int
	Sessions         []Session
	CanPrepare       bool
	GateSource       GateSource
	LockReason       string
	Completed        bool
}

// Session looks up a session by number.
func (c *Chapter) Session(number int) (*Session, bool) {
	for i := range c.Sessions {
		if c.Sessions[i].Number == number {
			return &c.Sessions[i], true
		}
	}
	return nil, false
}

type Session struct {
	Number            int
	Name              string
	Status            SessionStatus
	PlannedDate       *string
	PlannedPeriod     *string
	OriginalDate      *string
	OriginalPeriod    *string
	LessonPlanID      string
	EstimatedDuration int
	IsExtended        bool
	Fields            PlanFields
}

// SessionStatus keeps the primary lifecycle state and the cascade overlay as
// independent fields so delivery never erases displacement history.
type SessionStatus struct {
	State         LifecycleState
	Cascaded      bool
	CascadeDetail string
}

// PlanFields are the free-text planning fields. The engine carries them but
// never interprets their content.
type PlanFields struct {
	Objectives string `json:"objectives" validate:"required"`
	Methods    string `json:"methods" validate:"required"`
	Resources  string `json:"resources"`
	Assessment string `json:"assessment"`
}

// DefaultSessionName is used when the source leaves a session unnamed.
func DefaultSessionName(n int) string {
	return fmt.Sprintf("Session %d", n)
}

// Scope is the class+subject pair that period lookups and exam indexes are
// keyed on.
type Scope struct {
	Class   string
	Subject string
}

func (s Scope) String() string {
	return s.Class + "/" + s.Subject
}

// SessionRef addresses one session inside the loaded tree.
type SessionRef struct {
	SchemeID      string
	ChapterNumber int
	SessionNumber int
}

func (r SessionRef) String() string {
	return fmt.Sprintf("%s/ch%d/s%d", r.SchemeID, r.ChapterNumber, r.SessionNumber)
}
