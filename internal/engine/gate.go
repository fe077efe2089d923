package engine

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// FullyReported reports whether every session of the chapter, dense and
// extended, has been reported. A chapter without sessions has nothing left to
// report and never locks its successor.
func FullyReported(ch domain.Chapter) bool {
	for _, s := range ch.Sessions {
		if s.Status.State != domain.StateReported {
			return false
		}
	}
	return true
}

// LocalCanPrepare is the local gate predicate: the first chapter is always
// preparable, every later one only once its predecessor is fully reported.
func LocalCanPrepare(prev *domain.Chapter) bool {
	return prev == nil || FullyReported(*prev)
}

// LockReason is the message shown for a locally locked chapter.
func LockReason(prev domain.Chapter) string {
	return fmt.Sprintf("Complete Chapter %d first", prev.Number)
}

// ApplyGates fills CanPrepare for chapters the source left ungated. Chapters
// must be sorted by number. Upstream values are never overridden.
func ApplyGates(chapters []domain.Chapter) []domain.Chapter {
	for i := range chapters {
		ch := &chapters[i]
		if ch.GateSource == domain.GateUpstream {
			continue
		}
		var prev *domain.Chapter
		if i > 0 {
			prev = &chapters[i-1]
		}
		ch.GateSource = domain.GateLocal
		ch.CanPrepare = LocalCanPrepare(prev)
		ch.LockReason = ""
		if !ch.CanPrepare {
			ch.LockReason = LockReason(*prev)
		}
	}
	return chapters
}

// GateMismatch is a chapter whose upstream gate disagrees with the local
// predicate.
type GateMismatch struct {
	ChapterNumber int
	Upstream      bool
	Local         bool
	LockReason    string
}

func (m GateMismatch) String() string {
	return fmt.Sprintf("chapter %d: upstream canPrepare=%t, local=%t", m.ChapterNumber, m.Upstream, m.Local)
}

// GateDiagnostics lists upstream gates that the local predicate would have
// decided differently. It never changes the scheme.
func GateDiagnostics(s domain.Scheme) []GateMismatch {
	var out []GateMismatch
	for i, ch := range s.Chapters {
		if ch.GateSource != domain.GateUpstream {
			continue
		}
		var prev *domain.Chapter
		if i > 0 {
			prev = &s.Chapters[i-1]
		}
		local := LocalCanPrepare(prev)
		if local != ch.CanPrepare {
			out = append(out, GateMismatch{
				ChapterNumber: ch.Number,
				Upstream:      ch.CanPrepare,
				Local:         local,
				LockReason:    ch.LockReason,
			})
		}
	}
	return out
}

// Badge picks the chapter's completion badge. next is the following chapter,
// nil for the last one.
func Badge(ch domain.Chapter, next *domain.Chapter) domain.ChapterBadge {
	switch {
	case ch.Completed:
		return domain.BadgeChapterComplete
	case len(ch.Sessions) == 0 || !FullyReported(ch):
		return domain.BadgeNone
	case next != nil && next.CanPrepare:
		return domain.BadgeChapterCompleted
	default:
		return domain.BadgeAllReported
	}
}

// Affordances are the chapter-level preparation entry points.
type Affordances struct {
	PrepareAll      bool
	PrepareAllCount int
	AddExtended     bool
	ExtendedTarget  int
}

// ChapterAffordances derives the bulk entry points of a chapter.
func ChapterAffordances(ch domain.Chapter) Affordances {
	var a Affordances
	if ch.PlannedSessions == 0 && ch.TotalSessions > 0 {
		a.PrepareAll = true
		a.PrepareAllCount = ch.TotalSessions
	}
	if !ch.Completed && len(ch.Sessions) > 0 && FullyReported(ch) {
		a.AddExtended = true
		a.ExtendedTarget = ch.PlannedSessions + 1
	}
	return a
}
