package service

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/engine"
)

// BuildTree reconstructs a load payload into the outward tree: schemes with
// classified sessions, gates, progress, badges and affordances.
func BuildTree(p *domain.SchemeLoadPayload, now time.Time) (*app.SchemeTree, error) {
	if p == nil {
		return nil, app.LoadError(app.ErrCodeLoadFailed, "scheme source returned no payload", nil)
	}
	if !p.Success {
		return nil, app.LoadError(app.ErrCodeLoadFailed,
			domain.CoalesceStr(p.Error, "scheme source reported a failure"), nil)
	}

	tree := &app.SchemeTree{
		Schemes:  make([]app.SchemeNode, 0, len(p.Schemes)),
		Window:   resolveWindow(p.PlanningDateRange, now),
		BulkOnly: p.Settings.BulkOnly,
		LoadedAt: now,
	}
	for _, sp := range p.Schemes {
		tree.Schemes = append(tree.Schemes, buildSchemeNode(engine.ReconstructScheme(sp)))
	}
	return tree, nil
}

func buildSchemeNode(s domain.Scheme) app.SchemeNode {
	node := app.SchemeNode{
		Scheme:         s,
		Progress:       engine.SchemeProgress(s),
		Chapters:       make([]app.ChapterNode, 0, len(s.Chapters)),
		GateMismatches: engine.GateDiagnostics(s),
	}
	for i, ch := range s.Chapters {
		var next *domain.Chapter
		if i+1 < len(s.Chapters) {
			next = &s.Chapters[i+1]
		}
		node.Chapters = append(node.Chapters, app.ChapterNode{
			Chapter:     ch,
			Progress:    engine.ChapterProgress(ch),
			Badge:       engine.Badge(ch, next),
			Affordances: engine.ChapterAffordances(ch),
		})
	}
	return node
}

// resolveWindow reads the payload's planning range. Missing or unparseable
// bounds fall back to today and DefaultWindowDays from today.
func resolveWindow(p *domain.PlanningWindowPayload, now time.Time) domain.PlanningWindow {
	w := domain.Settings{}.Window(now)
	if p == nil {
		return w
	}
	if t, err := time.Parse(domain.DateLayout, domain.NormalizeDate(p.StartDate)); err == nil {
		w.Start = t
	}
	if t, err := time.Parse(domain.DateLayout, domain.NormalizeDate(p.EndDate)); err == nil {
		w.End = t
	}
	if w.End.Before(w.Start) {
		w.End = w.Start.AddDate(0, 0, domain.DefaultWindowDays)
	}
	if p.SubmissionDay != "" {
		if d, err := domain.ParseWeekday(p.SubmissionDay); err == nil {
			w.SubmissionDay = &d
		}
	}
	return w
}
