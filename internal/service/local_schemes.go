package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
)

// LocalSchemeSource builds scheme payloads from the local store. It plays the
// remote scheme source: sessions are sent sparse when configured, and the
// chapter gate is decided here so the engine treats it as upstream.
type LocalSchemeSource struct {
	schemes  repository.SchemeRepo
	chapters repository.ChapterRepo
	plans    repository.LessonPlanRepo
	settings repository.SettingsRepo
	sparse   bool
	now      func() time.Time
	observer UseCaseObserver
}

func NewLocalSchemeSource(
	schemes repository.SchemeRepo,
	chapters repository.ChapterRepo,
	plans repository.LessonPlanRepo,
	settings repository.SettingsRepo,
	sparse bool,
	observers ...UseCaseObserver,
) *LocalSchemeSource {
	return &LocalSchemeSource{
		schemes:  schemes,
		chapters: chapters,
		plans:    plans,
		settings: settings,
		sparse:   sparse,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *LocalSchemeSource) LoadSchemes(ctx context.Context, teacherID string) (p *domain.SchemeLoadPayload, err error) {
	sp := startSpan(s.observer, "source-load-schemes")
	sp.set("sparse", s.sparse)
	defer func() { sp.done(ctx, err) }()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := s.schemes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	p = &domain.SchemeLoadPayload{
		Success:           true,
		Schemes:           make([]domain.SchemePayload, 0, len(defs)),
		PlanningDateRange: windowPayload(settings.Window(s.now())),
		Settings:          domain.SettingsPayload{BulkOnly: settings.BulkOnly},
	}
	for _, def := range defs {
		scheme, err := s.schemePayload(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: %w", def.ID, err)
		}
		p.Schemes = append(p.Schemes, scheme)
	}
	sp.set("schemes", len(p.Schemes))
	return p, nil
}

func (s *LocalSchemeSource) schemePayload(ctx context.Context, def *domain.SchemeDef) (domain.SchemePayload, error) {
	chapters, err := s.chapters.ListByScheme(ctx, def.ID)
	if err != nil {
		return domain.SchemePayload{}, err
	}
	plans, err := s.plans.ListByScheme(ctx, def.ID)
	if err != nil {
		return domain.SchemePayload{}, err
	}
	byChapter := livePlansByChapter(plans)

	out := domain.SchemePayload{
		SchemeID:     def.ID,
		Class:        def.Class,
		Subject:      def.Subject,
		AcademicYear: def.AcademicYear,
		Term:         def.Term,
		Chapters:     make([]domain.ChapterPayload, 0, len(chapters)),
	}
	var total, planned int
	for i, ch := range chapters {
		var prev *domain.ChapterDef
		if i > 0 {
			prev = chapters[i-1]
		}
		can, reason := chapterGate(prev, byChapter)
		cp := s.chapterPayload(ch, byChapter[ch.Number])
		cp.CanPrepare = &can
		cp.LockReason = reason
		out.Chapters = append(out.Chapters, cp)

		total += ch.TotalSessions
		planned += cp.PlannedSessions.Int()
	}
	out.TotalSessions = domain.Number(total)
	out.PlannedSessions = domain.Number(planned)
	if total > 0 {
		out.OverallProgress = domain.Number(float64(planned) / float64(total) * 100)
	}
	return out, nil
}

func (s *LocalSchemeSource) chapterPayload(ch *domain.ChapterDef, plans map[int]*domain.LessonPlan) domain.ChapterPayload {
	cp := domain.ChapterPayload{
		ChapterNumber:    domain.Number(ch.Number),
		ChapterName:      ch.Name,
		TotalSessions:    domain.Number(ch.TotalSessions),
		SessionsSparse:   s.sparse,
		ChapterCompleted: ch.Completed,
	}

	numbers := make([]int, 0, len(plans))
	var planned int
	for n, p := range plans {
		numbers = append(numbers, n)
		if p.Status.Active() {
			planned++
		}
	}
	sort.Ints(numbers)
	cp.PlannedSessions = domain.Number(planned)

	if s.sparse {
		for _, n := range numbers {
			cp.Sessions = append(cp.Sessions, sessionPayload(plans[n]))
		}
		return cp
	}
	for n := 1; n <= ch.TotalSessions; n++ {
		if p, ok := plans[n]; ok {
			cp.Sessions = append(cp.Sessions, sessionPayload(p))
			continue
		}
		cp.Sessions = append(cp.Sessions, domain.SessionPayload{
			SessionNumber: domain.Number(n),
			SessionName:   domain.DefaultSessionName(n),
			Status:        string(domain.StateNotPlanned),
		})
	}
	for _, n := range numbers {
		if n > ch.TotalSessions {
			cp.Sessions = append(cp.Sessions, sessionPayload(plans[n]))
		}
	}
	return cp
}

func sessionPayload(p *domain.LessonPlan) domain.SessionPayload {
	return domain.SessionPayload{
		SessionNumber:     domain.Number(p.SessionNumber),
		SessionName:       p.SessionName,
		Status:            string(p.Status),
		PlanStatus:        p.PlanStatusNote,
		PlannedDate:       p.PlannedDate,
		PlannedPeriod:     p.PlannedPeriod,
		OriginalDate:      p.OriginalDate,
		OriginalPeriod:    p.OriginalPeriod,
		LessonPlanID:      p.ID,
		EstimatedDuration: domain.Number(p.DurationMin),
		IsExtended:        p.IsExtended,
		CascadeMarked:     p.Status == domain.PlanCascaded,
		Objectives:        p.Fields.Objectives,
		Methods:           p.Fields.Methods,
		Resources:         p.Fields.Resources,
		Assessment:        p.Fields.Assessment,
	}
}

// livePlansByChapter keeps the one non-rejected plan per session.
func livePlansByChapter(plans []*domain.LessonPlan) map[int]map[int]*domain.LessonPlan {
	out := make(map[int]map[int]*domain.LessonPlan)
	for _, p := range plans {
		if p.Status == domain.PlanRejected {
			continue
		}
		if out[p.ChapterNumber] == nil {
			out[p.ChapterNumber] = make(map[int]*domain.LessonPlan)
		}
		out[p.ChapterNumber][p.SessionNumber] = p
	}
	return out
}

// chapterGate decides preparation for the chapter after prev: the first
// chapter is open, later ones only once every session of prev, dense and
// extended, is reported.
func chapterGate(prev *domain.ChapterDef, byChapter map[int]map[int]*domain.LessonPlan) (bool, string) {
	if prev == nil {
		return true, ""
	}
	if _, ok := firstUnreported(prev, byChapter[prev.Number]); ok {
		return true, ""
	}
	return false, fmt.Sprintf("Complete Chapter %d first", prev.Number)
}

// firstUnreported returns the lowest session of ch without a reported live
// plan. The flag is true when there is none; a chapter without sessions is fully
// reported.
func firstUnreported(ch *domain.ChapterDef, live map[int]*domain.LessonPlan) (int, bool) {
	for n := 1; n <= ch.TotalSessions; n++ {
		if p, found := live[n]; !found || p.Status != domain.PlanReported {
			return n, false
		}
	}
	missing := 0
	for n, p := range live {
		if n > ch.TotalSessions && p.Status != domain.PlanReported && (missing == 0 || n < missing) {
			missing = n
		}
	}
	return missing, missing == 0
}

func windowPayload(w domain.PlanningWindow) *domain.PlanningWindowPayload {
	p := &domain.PlanningWindowPayload{
		StartDate: w.Start.Format(domain.DateLayout),
		EndDate:   w.End.Format(domain.DateLayout),
	}
	if w.SubmissionDay != nil {
		p.SubmissionDay = w.SubmissionDay.String()
	}
	return p
}
