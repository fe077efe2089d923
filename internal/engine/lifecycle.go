package engine

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// Classify derives a session's status from its raw payload. The cascade flag
// is computed independently of the primary state and survives later
// transitions: a reported session that was once displaced still reports
// Cascaded=true.
func Classify(sp domain.SessionPayload) domain.SessionStatus {
	state := domain.ParseLifecycleState(sp.Status)
	cascaded, detail := cascadeCondition(sp, state)

	// A displaced plan that has not been delivered yet is shown as cascaded.
	if cascaded && (state == domain.StatePlanned || state == domain.StateReady) {
		state = domain.StateCascaded
	}
	return domain.SessionStatus{State: state, Cascaded: cascaded, CascadeDetail: detail}
}

func cascadeCondition(sp domain.SessionPayload, state domain.LifecycleState) (bool, string) {
	origDate := domain.StrFromPtr(sp.OriginalDate)
	origPeriod := domain.StrFromPtr(sp.OriginalPeriod)
	switch {
	case origDate != "" || origPeriod != "":
		return true, describeOrigin(origDate, origPeriod)
	case strings.Contains(strings.ToLower(sp.PlanStatus), "cascad"):
		return true, sp.PlanStatus
	case state == domain.StateCascaded, sp.CascadeMarked:
		return true, "Rescheduled after a timetable change"
	}
	return false, ""
}

func describeOrigin(date, period string) string {
	switch {
	case date != "" && period != "":
		return fmt.Sprintf("Moved from %s period %s", date, period)
	case date != "":
		return "Moved from " + date
	default:
		return "Moved from period " + period
	}
}

// ActionFor returns what selecting a session in the given state opens, before
// any chapter gate or bulk-only policy is applied.
func ActionFor(state domain.LifecycleState) domain.ClickAction {
	switch state {
	case domain.StateNotPlanned:
		return domain.ActionPrepare
	case domain.StateCancelled:
		return domain.ActionNone
	default:
		return domain.ActionViewDetail
	}
}
