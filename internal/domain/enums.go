package domain

import "strings"

// LifecycleState is the primary state of a teaching session.
type LifecycleState string

const (
	StateNotPlanned LifecycleState = "not-planned"
	StatePlanned    LifecycleState = "planned"
	StateReady      LifecycleState = "ready"
	StateCascaded   LifecycleState = "cascaded"
	StateReported   LifecycleState = "reported"
	StateCancelled  LifecycleState = "cancelled"
)

// stateAliases maps normalized raw status strings onto the closed state set.
// Anything not listed here classifies as not-planned.
var stateAliases = map[string]LifecycleState{
	"not-planned":    StateNotPlanned,
	"planned":        StatePlanned,
	"pending-review": StatePlanned,
	"pending":        StatePlanned,
	"submitted":      StatePlanned,
	"ready":          StateReady,
	"approved":       StateReady,
	"cascaded":       StateCascaded,
	"reported":       StateReported,
	"cancelled":      StateCancelled,
	"canceled":       StateCancelled,
}

// ParseLifecycleState normalizes a raw status ("Pending Review", "READY",
// "not_planned") and maps it onto the closed state set.
func ParseLifecycleState(raw string) LifecycleState {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	if s, ok := stateAliases[key]; ok {
		return s
	}
	return StateNotPlanned
}

// CountsAsPlanned reports whether a session in this state contributes to a
// chapter's planned count.
func (s LifecycleState) CountsAsPlanned() bool {
	switch s {
	case StateNotPlanned, StateCancelled, "":
		return false
	}
	return true
}

// Label is the human-facing name of the state.
func (s LifecycleState) Label() string {
	switch s {
	case StatePlanned:
		return "Pending Review"
	case StateReady:
		return "Ready"
	case StateCascaded:
		return "Cascaded"
	case StateReported:
		return "Reported"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Not Planned"
	}
}

// PlanStatus is the persisted status of a lesson plan row. It is a superset of
// the lifecycle states because a rejected plan is stored but classifies as
// not-planned.
type PlanStatus string

const (
	PlanPendingReview PlanStatus = "Pending Review"
	PlanReady         PlanStatus = "Ready"
	PlanCascaded      PlanStatus = "Cascaded"
	PlanReported      PlanStatus = "Reported"
	PlanCancelled     PlanStatus = "Cancelled"
	PlanRejected      PlanStatus = "Rejected"
)

// Active reports whether the plan still holds its session and period.
func (p PlanStatus) Active() bool {
	return p != PlanRejected && p != PlanCancelled
}

// ChapterBadge is the single completion badge a chapter displays.
type ChapterBadge string

const (
	BadgeNone             ChapterBadge = ""
	BadgeChapterComplete  ChapterBadge = "chapter-complete"
	BadgeChapterCompleted ChapterBadge = "chapter-completed"
	BadgeAllReported      ChapterBadge = "all-sessions-reported"
)

// ProgressBand is a presentation hint derived from a percentage.
type ProgressBand string

const (
	BandGood    ProgressBand = "good"
	BandCaution ProgressBand = "caution"
	BandRisk    ProgressBand = "risk"
)

// ConflictLevel classifies a candidate slot against the exam calendar.
type ConflictLevel string

const (
	ConflictNone ConflictLevel = "none"
	ConflictSoft ConflictLevel = "soft"
	ConflictHard ConflictLevel = "hard"
)

// ClickAction is what selecting a session in a chapter leads to.
type ClickAction string

const (
	ActionPrepare    ClickAction = "prepare"
	ActionViewDetail ClickAction = "view-detail"
	ActionNone       ClickAction = "none"
)

// GateSource records where a chapter's canPrepare value came from.
type GateSource string

const (
	GateUpstream GateSource = "upstream"
	GateLocal    GateSource = "local"
)
