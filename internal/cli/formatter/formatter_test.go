package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func strPtr(s string) *string { return &s }

func TestRenderProgress(t *testing.T) {
	out := stripANSI(RenderProgress(50, 25, domain.BandCaution, 8))
	assert.Equal(t, "[██▓▓░░░░]  50% planned, 25% reported", out)

	capped := stripANSI(RenderProgress(20, 90, domain.BandRisk, 10))
	assert.Contains(t, capped, "20% planned, 20% reported")

	full := stripANSI(RenderProgress(150, 0, domain.BandGood, 4))
	assert.Equal(t, "[▓▓▓▓] 100% planned, 0% reported", full)
}

func TestRenderPlannedOnly(t *testing.T) {
	out := stripANSI(RenderPlannedOnly(25, domain.BandRisk, 4))
	assert.Equal(t, "[▓░░░]  25% planned", out)
}

func TestStatePill_CascadeOverlay(t *testing.T) {
	reported := stripANSI(StatePill(domain.SessionStatus{State: domain.StateReported, Cascaded: true}))
	assert.Contains(t, reported, "✔")
	assert.True(t, strings.HasSuffix(reported, "↻"))

	cascaded := stripANSI(StatePill(domain.SessionStatus{State: domain.StateCascaded, Cascaded: true}))
	assert.Equal(t, 1, strings.Count(cascaded, "↻"))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleGreen.Render("long cell"), "x"}, {"s", "y"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Chapter 1"},
		{Title: "one", Level: 1},
		{Title: "two", Level: 1, IsLast: true, Detail: "Mon"},
	}))
	assert.Contains(t, out, "├─ one")
	assert.Contains(t, out, "└─ two")
	assert.Contains(t, out, "Mon")
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "Mon 10 Nov · P3", SlotLabel("2025-11-10", "Period 3"))
	assert.Equal(t, "soon", SlotDate("soon"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "40m", FormatMinutes(40))
	assert.Equal(t, "1h", FormatMinutes(60))
	assert.Equal(t, "1h 20m", FormatMinutes(80))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
}

func testTree() *app.SchemeTree {
	reported := 1
	reportedPct := 20
	ch1 := domain.Chapter{
		Number: 1, Name: "Algebra", TotalSessions: 2, NumberOfSessions: 2, CanPrepare: true,
		Sessions: []domain.Session{
			{Number: 1, Name: "Expressions", Status: domain.SessionStatus{State: domain.StateReported},
				PlannedDate: strPtr("2025-11-10"), PlannedPeriod: strPtr("1"), LessonPlanID: "plan-aaaaaaaaaa"},
			{Number: 2, Name: "Equations", Status: domain.SessionStatus{
				State: domain.StateCascaded, Cascaded: true, CascadeDetail: "Moved from Tue 11 Nov period 3"},
				PlannedDate: strPtr("2025-11-12"), PlannedPeriod: strPtr("2")},
		},
	}
	ch2 := domain.Chapter{
		Number: 2, Name: "Geometry", TotalSessions: 3, NumberOfSessions: 3,
		LockReason: "Report every session of chapter 1 first.",
		Sessions: []domain.Session{
			{Number: 1, Name: "Session 1", Status: domain.SessionStatus{State: domain.StateNotPlanned}},
		},
	}
	return &app.SchemeTree{
		Window: domain.PlanningWindow{
			Start: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC),
		},
		BulkOnly: true,
		Schemes: []app.SchemeNode{{
			Scheme: domain.Scheme{ID: "scheme-1234567890", Class: "Form 2", Subject: "Mathematics",
				Term: "Term 1", AcademicYear: "2025", DetailLoaded: true, Chapters: []domain.Chapter{ch1, ch2}},
			Progress: domain.SchemeProgress{Total: 5, LPPlanned: 2, Reported: &reported,
				PlannedPercent: 40, ReportedPercent: &reportedPct, Band: domain.BandRisk},
			Chapters: []app.ChapterNode{
				{Chapter: ch1, Progress: domain.ChapterProgress{PlannedPercent: 100, ReportedPercent: 50, Band: domain.BandGood}},
				{Chapter: ch2, Progress: domain.ChapterProgress{Band: domain.BandRisk}},
			},
			GateMismatches: []engine.GateMismatch{{ChapterNumber: 2, Upstream: false, Local: true}},
		}},
	}
}

func TestFormatSchemeList(t *testing.T) {
	out := stripANSI(FormatSchemeList(testTree()))
	assert.Contains(t, out, "Form 2 Mathematics")
	assert.Contains(t, out, "2/5")
	assert.Contains(t, out, "40% planned, 20% reported")
	assert.Contains(t, out, "Window 2025-11-10 to 2025-11-21")
	assert.Contains(t, out, "bulk preparation only")
}

func TestFormatSchemeList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSchemeList(nil)), "No schemes")
}

func TestFormatSchemeTree(t *testing.T) {
	tree := testTree()
	out := stripANSI(FormatSchemeTree(&tree.Schemes[0]))

	assert.Contains(t, out, "Chapter 1: Algebra")
	assert.Contains(t, out, "Mon 10 Nov · P1")
	assert.Contains(t, out, "Moved from Tue 11 Nov period 3")
	assert.Contains(t, out, "Report every session of chapter 1 first.")
	assert.Contains(t, out, "Gate diagnostics")
	assert.Contains(t, out, "chapter 2: upstream canPrepare=false, local=true")
}

func TestFormatSchemeTree_SparseDetail(t *testing.T) {
	node := &app.SchemeNode{Scheme: domain.Scheme{Class: "Form 1", Subject: "Biology"}}
	out := stripANSI(FormatSchemeTree(node))
	assert.Contains(t, out, "Chapter detail is not available")
	assert.Contains(t, out, "0% planned")
}

func TestFormatSlots(t *testing.T) {
	slots := []domain.AnnotatedSlot{
		{CandidateSlot: domain.CandidateSlot{Date: "2025-11-10", Period: "1", IsAvailable: true}},
		{CandidateSlot: domain.CandidateSlot{Date: "2025-11-11", Period: "3", IsAvailable: true},
			Conflict: domain.Conflict{Level: domain.ConflictHard, Exams: []domain.ExamRecord{{Name: "CAT 1", Period: strPtr("3")}}}},
		{CandidateSlot: domain.CandidateSlot{Date: "2025-11-12", Period: "2", IsAvailable: true, IsOccupied: true}},
	}
	out := stripANSI(FormatSlots(domain.Scope{Class: "Form 2", Subject: "Mathematics"}, slots))
	assert.Contains(t, out, "Exam in this period: CAT 1 (period 3)")
	assert.Contains(t, out, "blocked")
	assert.Contains(t, out, "occupied")
	assert.Contains(t, out, "1 of 3 periods selectable")
}

func TestSlotOption_SoftConflict(t *testing.T) {
	s := domain.AnnotatedSlot{
		CandidateSlot: domain.CandidateSlot{Date: "2025-11-11", Period: "1", StartTime: "08:00", EndTime: "08:40", IsAvailable: true},
		Conflict:      domain.Conflict{Level: domain.ConflictSoft, Exams: []domain.ExamRecord{{ExamType: "Midterm"}}},
	}
	out := stripANSI(SlotOption(s))
	assert.Contains(t, out, "Tue 11 Nov · P1 08:00-08:40")
	assert.Contains(t, out, "Exam on this day: Midterm")
}

func TestFormatPlan(t *testing.T) {
	p := &domain.LessonPlan{
		ID: "plan-1", ChapterNumber: 1, SessionName: "Expressions", Class: "Form 2", Subject: "Mathematics",
		Status: domain.PlanCascaded, PlannedDate: strPtr("2025-11-12"), PlannedPeriod: strPtr("2"),
		OriginalDate: strPtr("2025-11-10"), OriginalPeriod: strPtr("1"), DurationMin: 40,
		Fields: domain.PlanFields{Objectives: "Simplify", Methods: "Worked examples"},
	}
	out := stripANSI(FormatPlan(p))
	assert.Contains(t, out, "Cascaded")
	assert.Contains(t, out, "Mon 10 Nov · P1")
	assert.Contains(t, out, "Worked examples")
	assert.Contains(t, out, "40m")
}

func TestFormatPlanError(t *testing.T) {
	pe := app.ValidationError(app.ErrCodeMissingFields, "complete the required fields",
		app.FieldError{Field: "objectives", Message: "is required"})
	out := stripANSI(FormatPlanError(pe))
	assert.Contains(t, out, "MISSING_FIELDS")
	assert.Contains(t, out, "objectives: is required")
}

func TestFormatPlanResult(t *testing.T) {
	n := 3
	assert.Contains(t, stripANSI(FormatPlanResult(&app.PlanResult{Success: true, CreatedCount: &n})), "Created 3 lesson plans")
	assert.Contains(t, stripANSI(FormatPlanResult(&app.PlanResult{Success: true, PlanIDs: []string{"x"}})), "Created 1 lesson plan")
}

func TestFormatSettings(t *testing.T) {
	day := time.Friday
	now := time.Date(2025, 11, 7, 9, 0, 0, 0, time.UTC)
	out := stripANSI(FormatSettings(&domain.Settings{SubmissionDay: &day}, now))
	assert.Contains(t, out, "2025-11-07 to 2025-12-05")
	assert.Contains(t, out, "default 28 days")
	assert.Contains(t, out, "Friday")
}
