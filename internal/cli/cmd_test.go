package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App over the local SQLite sources of an in-memory DB.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	schemeRepo := repository.NewSQLiteSchemeRepo(db)
	chapterRepo := repository.NewSQLiteChapterRepo(db)
	planRepo := repository.NewSQLiteLessonPlanRepo(db)
	timetableRepo := repository.NewSQLiteTimetableRepo(db)
	examRepo := repository.NewSQLiteExamRepo(db)
	settingsRepo := repository.NewSQLiteSettingsRepo(db)

	schemes := service.NewLocalSchemeSource(schemeRepo, chapterRepo, planRepo, settingsRepo, true)
	periods := service.NewLocalPeriodSource(timetableRepo, planRepo)
	loader := service.NewSchemeLoader(schemes, testutil.TestTeacherID, 5*time.Second)
	orch := service.NewOrchestrator(loader, periods, service.NewLocalExamSource(examRepo),
		service.NewLocalPlanWriter(uow), testutil.TestTeacherID)

	return &App{
		Planner:   orch,
		LoadState: loader,
		Plans:     service.NewLessonPlanService(planRepo, uow),
		Settings:  service.NewSettingsService(settingsRepo),
		Exams:     service.NewExamService(examRepo),
		Timetable: service.NewTimetableService(timetableRepo),
		Import:    service.NewImportService(uow, testutil.TestTeacherID),
		Periods:   periods,
		TeacherID: testutil.TestTeacherID,
		// Suggestions left unset: LLM disabled.
	}
}

const curriculumJSON = `{
  "schemes": [{
    "class": "Form 2", "subject": "Mathematics", "academic_year": "2025", "term": "Term 3",
    "chapters": [
      {"name": "Algebra", "sessions": 3},
      {"name": "Geometry", "sessions": 2}
    ]
  }],
  "timetable": [
    {"weekday": "Monday", "period": "1", "class": "Form 2", "subject": "Mathematics"},
    {"weekday": "Tuesday", "period": "3", "class": "Form 2", "subject": "Mathematics"},
    {"weekday": "Wednesday", "period": "2", "class": "Form 2", "subject": "Mathematics"},
    {"weekday": "Thursday", "period": "1", "class": "Form 2", "subject": "Mathematics"},
    {"weekday": "Friday", "period": "4", "class": "Form 2", "subject": "Mathematics"}
  ]
}`

// seedCurriculum imports the test curriculum and returns the scheme id.
func seedCurriculum(t *testing.T, a *App) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curriculum.json")
	require.NoError(t, os.WriteFile(path, []byte(curriculumJSON), 0o644))
	_, err := executeCmd(t, a, "import", path)
	require.NoError(t, err)

	tree, err := a.Planner.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, tree.Tree.Schemes, 1)
	return tree.Tree.Schemes[0].Scheme.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// planIDs lists the full ids printed by "plans".
func planIDs(t *testing.T, a *App, schemeID string) []string {
	t.Helper()
	out, err := executeCmd(t, a, "plans", schemeID)
	require.NoError(t, err)
	return regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).FindAllString(out, -1)
}

var prepFlags = []string{"--objectives", "Simplify expressions", "--methods", "Worked examples"}

func args(base []string, more ...string) []string {
	return append(append([]string{}, base...), more...)
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "syllabus")
	assert.Contains(t, out, "prepare-bulk")
}

// --- import and scheme ---

func TestImportCmd(t *testing.T) {
	a := testApp(t)
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(curriculumJSON), 0o644))

	out, err := executeCmd(t, a, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Curriculum imported")
	assert.Contains(t, out, "Form 2 Mathematics (Term 3, 2025)")
	assert.Contains(t, out, "2 chapters · 5 timetable periods · 0 exams")
}

func TestImportCmd_InvalidFile(t *testing.T) {
	a := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemes": []}`), 0o644))

	_, err := executeCmd(t, a, "import", path)
	assert.Error(t, err)
}

func TestSchemeList(t *testing.T) {
	a := testApp(t)
	seedCurriculum(t, a)

	out, err := executeCmd(t, a, "scheme", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Form 2 Mathematics")
	assert.Contains(t, out, "0/5")
	assert.Contains(t, out, "0% planned, 0% reported")
}

func TestSchemeList_Empty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "scheme", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No schemes of work")
}

func TestSchemeShow_ByPrefix(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	out, err := executeCmd(t, a, "scheme", "show", id[:6])
	require.NoError(t, err)
	assert.Contains(t, out, "Chapter 1: Algebra")
	assert.Contains(t, out, "3. Session 3")
	assert.Contains(t, out, "prepare all 3")
	assert.Contains(t, out, "Complete Chapter 1 first")
}

func TestSchemeShow_Unknown(t *testing.T) {
	a := testApp(t)
	seedCurriculum(t, a)

	_, err := executeCmd(t, a, "scheme", "show", "nope")
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeNotFound, app.CodeOf(err))
}

// --- periods ---

func TestPeriodsCmd_RequiresScope(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "periods", "--class", "Form 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--class and --subject")
}

func TestPeriodsCmd_AnnotatesExams(t *testing.T) {
	a := testApp(t)
	seedCurriculum(t, a)
	monday := nextWeekday(time.Monday)

	_, err := executeCmd(t, a, "exam", "add", "--class", "form 2", "--subject", "mathematics",
		"--date", monday, "--period", "1", "--name", "CAT 1")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "periods", "--class", "Form 2", "--subject", "Mathematics",
		"--from", monday, "--to", monday)
	require.NoError(t, err)
	assert.Contains(t, out, "Exam in this period: CAT 1 (period 1)")
	assert.Contains(t, out, "0 of 1 periods selectable")
}

func TestPeriodsCmd_BadRange(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "periods", "--class", "Form 2", "--subject", "Mathematics",
		"--from", "2025-11-20", "--to", "2025-11-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to is before --from")
}

// --- prepare ---

func TestPrepareCmd_CreatesPlan(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	out, err := executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 lesson plan")
	assert.Contains(t, out, "Scheduled")

	show, err := executeCmd(t, a, "scheme", "show", id)
	require.NoError(t, err)
	assert.Contains(t, show, "Pending Review")
}

func TestPrepareCmd_ByDate(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	wednesday := nextWeekday(time.Wednesday)

	out, err := executeCmd(t, a, args([]string{"prepare", id, "1", "2", "--date", wednesday}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "P2")

	_, err = executeCmd(t, a, args([]string{"prepare", id, "1", "3", "--date", wednesday, "--period", "7"}, prepFlags...)...)
	assert.Equal(t, app.ErrCodeSlotUnavailable, app.CodeOf(err))
}

func TestPrepareCmd_Refusals(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	tests := []struct {
		name string
		args []string
		code app.PlanErrorCode
	}{
		{"no period", args([]string{"prepare", id, "1", "1"}, prepFlags...), app.ErrCodeNoPeriod},
		{"missing fields", []string{"prepare", id, "1", "1", "--slot", "1", "--objectives", "Only this"}, app.ErrCodeMissingFields},
		{"locked chapter", args([]string{"prepare", id, "2", "1", "--slot", "1"}, prepFlags...), app.ErrCodeChapterLocked},
		{"slot out of range", args([]string{"prepare", id, "1", "1", "--slot", "999"}, prepFlags...), app.ErrCodeSlotUnavailable},
		{"unknown session", args([]string{"prepare", id, "1", "9", "--slot", "1"}, prepFlags...), app.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, a, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, app.CodeOf(err))
		})
	}
	assert.Empty(t, planIDs(t, a, id))
}

func TestPrepareCmd_BadArgs(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	_, err := executeCmd(t, a, "prepare", id, "one", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter must be a positive number")

	_, err = executeCmd(t, a, "prepare", id, "1", "1", "--slot", "1", "--date", "2025-11-10")
	assert.Error(t, err)
}

func TestPrepareCmd_PlannedSessionShowsDetail(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	require.NoError(t, err)

	out, err := executeCmd(t, a, "prepare", id, "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "LESSON PLAN")
	assert.Contains(t, out, "Worked examples")
}

func TestPrepareCmd_SubmissionDayRestricted(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	other := time.Weekday((int(time.Now().UTC().Weekday()) + 1) % 7)

	_, err := executeCmd(t, a, "settings", "submission-day", other.String())
	require.NoError(t, err)

	_, err = executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeSubmissionDay, app.CodeOf(err))
}

func TestPrepareCmd_SuggestWithoutLLM(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	out, err := executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1", "--suggest"}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "AI suggestions are not enabled.")
	assert.Contains(t, out, "Created 1 lesson plan")
}

// --- prepare-bulk ---

func TestPrepareBulkCmd_BulkOnly(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, "settings", "bulk-only", "on")
	require.NoError(t, err)

	_, err = executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	assert.Equal(t, app.ErrCodeBulkOnly, app.CodeOf(err))

	out, err := executeCmd(t, a, args([]string{"prepare-bulk", id, "1"}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created 3 lesson plans")
	assert.Len(t, planIDs(t, a, id), 3)

	_, err = executeCmd(t, a, args([]string{"prepare-bulk", id, "1"}, prepFlags...)...)
	assert.Equal(t, app.ErrCodeNotPreparable, app.CodeOf(err))
}

func TestPrepareBulkCmd_PerSessionFields(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	_, err := executeCmd(t, a, "prepare-bulk", id, "1",
		"--objectives", "a", "--objectives", "b",
		"--methods", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--objectives given 2 times for 3 sessions")

	_, err = executeCmd(t, a, "prepare-bulk", id, "1",
		"--objectives", "alpha", "--objectives", "beta", "--objectives", "gamma")
	assert.Equal(t, app.ErrCodeIncompleteEntries, app.CodeOf(err))

	_, err = executeCmd(t, a, "prepare-bulk", id, "1",
		"--objectives", "alpha", "--objectives", "beta", "--objectives", "gamma", "--methods", "Discussion")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "plan", planIDs(t, a, id)[1][:8])
	require.NoError(t, err)
	assert.Contains(t, out, "beta")
	assert.NotContains(t, out, "gamma")
}

// --- lifecycle ---

func TestLifecycle_ReviewReportUnlocksNextChapter(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, args([]string{"prepare-bulk", id, "1"}, prepFlags...)...)
	require.NoError(t, err)

	for _, pid := range planIDs(t, a, id) {
		out, err := executeCmd(t, a, "review", pid[:8], "--comment", "ok")
		require.NoError(t, err)
		assert.Contains(t, out, "Approved")
		out, err = executeCmd(t, a, "report", pid)
		require.NoError(t, err)
		assert.Contains(t, out, "Reported")
	}

	show, err := executeCmd(t, a, "scheme", "show", id)
	require.NoError(t, err)
	assert.Contains(t, show, "Chapter completed")
	assert.Contains(t, show, "add extended session 4")
	assert.NotContains(t, show, "Complete Chapter 1 first")

	free := laterDate(time.Friday, 2)
	out, err := executeCmd(t, a, args([]string{"prepare", id, "2", "1", "--date", free}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 lesson plan")
}

func TestLifecycle_RejectFreesSession(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	require.NoError(t, err)
	pid := planIDs(t, a, id)[0]

	out, err := executeCmd(t, a, "review", pid, "--reject", "--comment", "too thin")
	require.NoError(t, err)
	assert.Contains(t, out, "Rejected")

	out, err = executeCmd(t, a, args([]string{"prepare", id, "1", "1", "--slot", "1"}, prepFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 lesson plan")
}

func TestLifecycle_CancelAndReschedule(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, args([]string{"prepare-bulk", id, "1"}, prepFlags...)...)
	require.NoError(t, err)
	ids := planIDs(t, a, id)
	require.Len(t, ids, 3)

	target := laterDate(time.Thursday, 2)
	out, err := executeCmd(t, a, "reschedule", ids[0], "--date", target, "--period", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Rescheduled")

	detail, err := executeCmd(t, a, "plan", ids[0])
	require.NoError(t, err)
	assert.Contains(t, detail, "Cascaded")
	assert.Contains(t, detail, "Rescheduled to "+target+" period 1")

	out, err = executeCmd(t, a, "cancel", ids[1])
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	_, err = executeCmd(t, a, "cancel", ids[1])
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestReportCmd_CompleteNeedsLastSessionAndFullReport(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)
	_, err := executeCmd(t, a, args([]string{"prepare-bulk", id, "1"}, prepFlags...)...)
	require.NoError(t, err)
	ids := planIDs(t, a, id)

	_, err = executeCmd(t, a, "report", ids[0], "--complete")
	assert.ErrorIs(t, err, service.ErrNotLastSession)

	_, err = executeCmd(t, a, "report", ids[2], "--complete")
	assert.ErrorIs(t, err, service.ErrChapterNotReported)

	for _, pid := range ids[:2] {
		_, err = executeCmd(t, a, "report", pid)
		require.NoError(t, err)
	}
	_, err = executeCmd(t, a, "report", ids[2], "--complete")
	require.NoError(t, err)
	show, err := executeCmd(t, a, "scheme", "show", id)
	require.NoError(t, err)
	assert.Contains(t, show, "Chapter complete")
}

func TestPlanID_Unknown(t *testing.T) {
	a := testApp(t)
	seedCurriculum(t, a)

	_, err := executeCmd(t, a, "plan", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- calendar ---

func TestExamCmd_AddListRemove(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "exam", "add", "--class", "Form 2", "--subject", "Mathematics",
		"--date", "2025-11-11", "--type", "CAT")
	require.NoError(t, err)
	assert.Contains(t, out, "Added CAT on Tue 11 Nov")
	examID := strings.TrimSuffix(out[strings.LastIndex(out, "(")+1:], ")\n")

	out, err = executeCmd(t, a, "exam", "list", "--class", "Form 2", "--subject", "Mathematics")
	require.NoError(t, err)
	assert.Contains(t, out, "all day")

	out, err = executeCmd(t, a, "exam", "list", "--class", "Form 3", "--subject", "English")
	require.NoError(t, err)
	assert.Contains(t, out, "No exams scheduled.")

	_, err = executeCmd(t, a, "exam", "remove", examID)
	require.NoError(t, err)
	out, err = executeCmd(t, a, "exam", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No exams scheduled.")
}

func TestExamCmd_BadDate(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "exam", "add", "--class", "Form 2", "--subject", "Mathematics",
		"--date", "next week")
	assert.Error(t, err)
}

func TestTimetableCmd(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "timetable", "add", "--class", "Form 3", "--subject", "English",
		"--day", "tue", "--period", "Period 4", "--start", "10:00", "--end", "10:40")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Tuesday P4 for Form 3/English")

	out, err = executeCmd(t, a, "timetable", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tuesday")
	assert.Contains(t, out, "10:00-10:40")

	_, err = executeCmd(t, a, "timetable", "add", "--class", "Form 3", "--subject", "English",
		"--day", "someday", "--period", "1")
	assert.Error(t, err)
}

// --- settings ---

func TestSettingsCmd(t *testing.T) {
	a := testApp(t)
	a.Now = func() time.Time { return time.Date(2025, 11, 7, 9, 0, 0, 0, time.UTC) }

	out, err := executeCmd(t, a, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-11-07 to 2025-12-05")
	assert.Contains(t, out, "any day")

	out, err = executeCmd(t, a, "settings", "window", "--start", "2025-11-10", "--end", "2025-11-21")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-11-10 to 2025-11-21")

	_, err = executeCmd(t, a, "settings", "window", "--start", "2025-11-21", "--end", "2025-11-10")
	assert.ErrorIs(t, err, service.ErrInvalidWindow)

	out, err = executeCmd(t, a, "settings", "window", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "default 28 days")

	out, err = executeCmd(t, a, "settings", "bulk-only", "on")
	require.NoError(t, err)
	assert.Regexp(t, `Bulk preparation only\s+on`, out)

	_, err = executeCmd(t, a, "settings", "bulk-only", "maybe")
	assert.Error(t, err)

	out, err = executeCmd(t, a, "settings", "submission-day", "fri")
	require.NoError(t, err)
	assert.Contains(t, out, "Friday")
	out, err = executeCmd(t, a, "settings", "submission-day", "any")
	require.NoError(t, err)
	assert.Contains(t, out, "any day")
}

// --- suggest ---

func TestSuggestCmd_Disabled(t *testing.T) {
	a := testApp(t)
	id := seedCurriculum(t, a)

	out, err := executeCmd(t, a, "suggest", id, "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "AI suggestions are not enabled.")
}

// --- errors ---

func TestFormatError(t *testing.T) {
	pe := app.GateError(app.ErrCodeChapterLocked, "Complete Chapter 1 first")
	out := stripANSI(FormatError(fmt.Errorf("wrapped: %w", pe)))
	assert.Contains(t, out, "Complete Chapter 1 first")
	assert.Contains(t, out, "CHAPTER_LOCKED")

	assert.Contains(t, stripANSI(FormatError(fmt.Errorf("plain"))), "✖ plain")
}

// nextWeekday is the first date after today falling on wd.
func nextWeekday(wd time.Weekday) string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

// laterDate is nextWeekday(wd) moved on by weeks, clear of the first free
// periods a bulk preparation takes.
func laterDate(wd time.Weekday, weeks int) string {
	d, _ := time.Parse("2006-01-02", nextWeekday(wd))
	return d.AddDate(0, 0, 7*weeks).Format("2006-01-02")
}
