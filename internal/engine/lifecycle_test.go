package engine

import (
	"testing"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify_PrimaryStates(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.LifecycleState
	}{
		{"", domain.StateNotPlanned},
		{"not-planned", domain.StateNotPlanned},
		{"NOT_PLANNED", domain.StateNotPlanned},
		{"planned", domain.StatePlanned},
		{"Pending Review", domain.StatePlanned},
		{"READY", domain.StateReady},
		{"approved", domain.StateReady},
		{"reported", domain.StateReported},
		{"Cancelled", domain.StateCancelled},
		{"canceled", domain.StateCancelled},
		{"rejected", domain.StateNotPlanned},
		{"something else", domain.StateNotPlanned},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			st := Classify(domain.SessionPayload{Status: tt.raw})
			assert.Equal(t, tt.want, st.State)
			assert.False(t, st.Cascaded)
		})
	}
}

func TestClassify_CascadeEntryConditions(t *testing.T) {
	tests := []struct {
		name string
		in   domain.SessionPayload
	}{
		{"explicit status", domain.SessionPayload{Status: "Cascaded"}},
		{"original date", domain.SessionPayload{Status: "ready", OriginalDate: strPtr("2025-11-03")}},
		{"original period", domain.SessionPayload{Status: "planned", OriginalPeriod: strPtr("2")}},
		{"plan status text", domain.SessionPayload{Status: "ready", PlanStatus: "Cascading from timetable"}},
		{"upstream mark", domain.SessionPayload{Status: "planned", CascadeMarked: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Classify(tt.in)
			assert.Equal(t, domain.StateCascaded, st.State)
			assert.True(t, st.Cascaded)
			assert.NotEmpty(t, st.CascadeDetail)
		})
	}
}

func TestClassify_ReportedKeepsCascadeOverlay(t *testing.T) {
	st := Classify(domain.SessionPayload{
		Status:         "reported",
		OriginalDate:   strPtr("2025-11-03"),
		OriginalPeriod: strPtr("4"),
	})
	assert.Equal(t, domain.StateReported, st.State)
	assert.True(t, st.Cascaded)
	assert.Equal(t, "Moved from 2025-11-03 period 4", st.CascadeDetail)
}

func TestClassify_NotPlannedIsNeverPromoted(t *testing.T) {
	st := Classify(domain.SessionPayload{Status: "", OriginalDate: strPtr("2025-11-03")})
	assert.Equal(t, domain.StateNotPlanned, st.State)
	assert.True(t, st.Cascaded)
}

func TestClassify_BlankOriginIsNotCascade(t *testing.T) {
	st := Classify(domain.SessionPayload{Status: "ready", OriginalDate: strPtr(""), OriginalPeriod: nil})
	assert.Equal(t, domain.StateReady, st.State)
	assert.False(t, st.Cascaded)
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, domain.ActionPrepare, ActionFor(domain.StateNotPlanned))
	for _, s := range []domain.LifecycleState{domain.StatePlanned, domain.StateReady, domain.StateCascaded, domain.StateReported} {
		assert.Equal(t, domain.ActionViewDetail, ActionFor(s), s)
	}
	assert.Equal(t, domain.ActionNone, ActionFor(domain.StateCancelled))
}
