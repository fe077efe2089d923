package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/stretchr/testify/require"
)

// friday is the fixed "now" of orchestrator tests.
var friday = time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

type fakeSchemeSource struct {
	mu      sync.Mutex
	payload *domain.SchemeLoadPayload
	err     error
	calls   int
	// gate, when set, blocks each call until a value is received. The
	// payload and error are captured when the call starts.
	gate chan struct{}
}

func (f *fakeSchemeSource) LoadSchemes(ctx context.Context, teacherID string) (*domain.SchemeLoadPayload, error) {
	f.mu.Lock()
	f.calls++
	gate, payload, err := f.gate, f.payload, f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return payload, err
}

func (f *fakeSchemeSource) setGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = gate
}

func (f *fakeSchemeSource) set(p *domain.SchemeLoadPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload, f.err = p, err
}

func (f *fakeSchemeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePeriods struct {
	slots   []domain.CandidateSlot
	err     error
	queries []app.PeriodQuery
	// before runs at the start of each call.
	before func()
}

func (f *fakePeriods) Periods(ctx context.Context, q app.PeriodQuery) ([]domain.CandidateSlot, error) {
	if f.before != nil {
		f.before()
	}
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CandidateSlot
	for _, s := range f.slots {
		if q.ExcludeOccupied && s.IsOccupied {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeExams struct {
	exams []domain.ExamRecord
	calls int
}

func (f *fakeExams) Exams(ctx context.Context, scope domain.Scope) ([]domain.ExamRecord, error) {
	f.calls++
	return f.exams, nil
}

type fakeWriter struct {
	result  *app.PlanResult
	err     error
	singles []app.SinglePlanRequest
	bulks   []app.BulkPlanRequest
}

func (f *fakeWriter) CreateSingle(ctx context.Context, req app.SinglePlanRequest) (*app.PlanResult, error) {
	f.singles = append(f.singles, req)
	return f.answer(1)
}

func (f *fakeWriter) CreateBulk(ctx context.Context, req app.BulkPlanRequest) (*app.PlanResult, error) {
	f.bulks = append(f.bulks, req)
	return f.answer(len(req.Drafts))
}

func (f *fakeWriter) answer(n int) (*app.PlanResult, error) {
	if f.err != nil || f.result != nil {
		return f.result, f.err
	}
	return &app.PlanResult{Success: true, CreatedCount: &n}, nil
}

type fakeSuggester struct {
	fields *domain.PlanFields
	err    error
	reqs   []app.SuggestionRequest
}

func (f *fakeSuggester) Suggest(ctx context.Context, req app.SuggestionRequest) (*domain.PlanFields, error) {
	f.reqs = append(f.reqs, req)
	return f.fields, f.err
}

func slot(date, period string) domain.CandidateSlot {
	return domain.CandidateSlot{
		Date: date, Period: period, StartTime: "08:00", EndTime: "08:40",
		IsAvailable: true, Class: "Form 2", Subject: "Mathematics",
	}
}

func session(n int, status string) domain.SessionPayload {
	return domain.SessionPayload{SessionNumber: domain.Number(n), Status: status}
}

// twoChapterPayload: chapter 1 has three sessions with session 3 reported,
// chapter 2 has two sessions and nothing planned.
func twoChapterPayload() *domain.SchemeLoadPayload {
	return &domain.SchemeLoadPayload{
		Success: true,
		Schemes: []domain.SchemePayload{{
			SchemeID: "s1", Class: "Form 2", Subject: "Mathematics",
			TotalSessions: 5, PlannedSessions: 1,
			Chapters: []domain.ChapterPayload{
				{
					ChapterNumber: 1, ChapterName: "Fractions", TotalSessions: 3,
					SessionsSparse: true,
					Sessions:       []domain.SessionPayload{session(3, "Reported")},
				},
				{
					ChapterNumber: 2, ChapterName: "Decimals", TotalSessions: 2,
					SessionsSparse: true,
				},
			},
		}},
		PlanningDateRange: &domain.PlanningWindowPayload{StartDate: "2025-11-10", EndDate: "2025-11-21"},
	}
}

type orchestratorEnv struct {
	source  *fakeSchemeSource
	periods *fakePeriods
	exams   *fakeExams
	writer  *fakeWriter
	loader  *SchemeLoader
	orch    *Orchestrator
}

func newOrchestratorEnv(t *testing.T, payload *domain.SchemeLoadPayload, opts ...OrchestratorOption) *orchestratorEnv {
	t.Helper()
	env := &orchestratorEnv{
		source: &fakeSchemeSource{payload: payload},
		periods: &fakePeriods{slots: []domain.CandidateSlot{
			slot("2025-11-10", "1"),
			slot("2025-11-11", "3"),
			slot("2025-11-11", "4"),
			slot("2025-11-12", "2"),
		}},
		exams:  &fakeExams{},
		writer: &fakeWriter{},
	}
	env.loader = NewSchemeLoader(env.source, "teacher-1", time.Second)
	env.loader.now = func() time.Time { return friday }
	opts = append([]OrchestratorOption{WithClock(func() time.Time { return friday })}, opts...)
	env.orch = NewOrchestrator(env.loader, env.periods, env.exams, env.writer, "teacher-1", opts...)

	out, err := env.orch.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, app.LoadApplied, out.Status)
	return env
}

func validFields() domain.PlanFields {
	return domain.PlanFields{Objectives: "Add fractions", Methods: "Worked examples"}
}
