package app

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/engine"
)

// SchemeTree is the outward view of one load cycle. It is replaced wholesale
// on every accepted load.
type SchemeTree struct {
	Schemes  []SchemeNode
	Window   domain.PlanningWindow
	BulkOnly bool
	LoadedAt time.Time
}

// Scheme finds a scheme node by id.
func (t *SchemeTree) Scheme(id string) (*SchemeNode, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Schemes {
		if t.Schemes[i].Scheme.ID == id {
			return &t.Schemes[i], true
		}
	}
	return nil, false
}

type SchemeNode struct {
	Scheme         domain.Scheme
	Progress       domain.SchemeProgress
	Chapters       []ChapterNode
	GateMismatches []engine.GateMismatch
}

// Chapter finds a chapter node by number.
func (n *SchemeNode) Chapter(number int) (*ChapterNode, bool) {
	for i := range n.Chapters {
		if n.Chapters[i].Chapter.Number == number {
			return &n.Chapters[i], true
		}
	}
	return nil, false
}

type ChapterNode struct {
	Chapter     domain.Chapter
	Progress    domain.ChapterProgress
	Badge       domain.ChapterBadge
	Affordances engine.Affordances
}

// ClickResult is what selecting a session resolves to.
type ClickResult struct {
	Ref     domain.SessionRef
	Action  domain.ClickAction
	Session domain.Session
	Message string
}

// LoadStatus describes how a Load call ended from the caller's side.
type LoadStatus string

const (
	LoadApplied    LoadStatus = "applied"
	LoadSuppressed LoadStatus = "suppressed"
	LoadPending    LoadStatus = "pending"
	LoadSuperseded LoadStatus = "superseded"
	LoadFailed     LoadStatus = "failed"
)

type LoadOutcome struct {
	Status   LoadStatus
	Advisory string
	Tree     *SchemeTree
}
