package domain

import (
	"fmt"
	"time"
)

// SchemeDef is the stored curriculum definition for one class+subject+term.
type SchemeDef struct {
	ID           string
	TeacherID    string
	Class        string
	Subject      string
	AcademicYear string
	Term         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is a compact one-line label.
func (s *SchemeDef) DisplayName() string {
	return fmt.Sprintf("%s %s (%s, %s)", s.Class, s.Subject, s.Term, s.AcademicYear)
}

// ChapterDef is the stored chapter of a scheme. TotalSessions is the
// authoritative count from the curriculum definition.
type ChapterDef struct {
	SchemeID      string
	Number        int
	Name          string
	TotalSessions int
	Completed     bool
	CompletedAt   *time.Time
}
