package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/engine"
)

// Orchestrator drives single and bulk lesson-plan preparation over the loaded
// scheme tree. It owns the bulk-only flag, the per-scope request trackers and
// the exam index of the last looked-up class+subject.
type Orchestrator struct {
	loader    *SchemeLoader
	periods   app.PeriodSource
	exams     app.ExamSource
	writer    app.PlanWriter
	suggester app.SuggestionSource
	teacherID string
	now       func() time.Time
	observer  UseCaseObserver

	lookups *ScopeTracker
	submits *ScopeTracker

	mu        sync.Mutex
	bulkOnly  bool
	examIndex *engine.ExamIndex
}

type OrchestratorOption func(*Orchestrator)

// WithSuggestions enables AI-drafted plan fields.
func WithSuggestions(src app.SuggestionSource) OrchestratorOption {
	return func(o *Orchestrator) { o.suggester = src }
}

// WithClock replaces the wall clock used for submission-day checks.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func WithObserver(obs UseCaseObserver) OrchestratorOption {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func NewOrchestrator(
	loader *SchemeLoader,
	periods app.PeriodSource,
	exams app.ExamSource,
	writer app.PlanWriter,
	teacherID string,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		loader:    loader,
		periods:   periods,
		exams:     exams,
		writer:    writer,
		teacherID: teacherID,
		now:       func() time.Time { return time.Now().UTC() },
		observer:  NoopUseCaseObserver{},
		lookups:   NewScopeTracker(),
		submits:   NewScopeTracker(),
	}
	for _, opt := range opts {
		opt(o)
	}
	loader.OnApply(o.applied)
	return o
}

// applied picks up the stored bulk-only policy and drops the cached exam
// index so the next lookup sees a fresh calendar.
func (o *Orchestrator) applied(tree *app.SchemeTree) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bulkOnly = tree.BulkOnly
	o.examIndex = nil
}

func (o *Orchestrator) Load(ctx context.Context) (app.LoadOutcome, error) {
	return o.loader.Load(ctx)
}

func (o *Orchestrator) Tree() *app.SchemeTree {
	return o.loader.Tree()
}

func (o *Orchestrator) BulkOnly() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bulkOnly
}

// SetBulkOnly overrides the policy until the next applied load.
func (o *Orchestrator) SetBulkOnly(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bulkOnly = on
}

type located struct {
	scheme  *app.SchemeNode
	chapter *app.ChapterNode
	session *domain.Session
}

func (o *Orchestrator) locateChapter(schemeID string, chapter int) (located, error) {
	tree := o.loader.Tree()
	if tree == nil {
		return located{}, app.LoadError(app.ErrCodeNotFound, "schemes have not been loaded", nil)
	}
	s, ok := tree.Scheme(schemeID)
	if !ok {
		return located{}, app.ValidationError(app.ErrCodeNotFound, fmt.Sprintf("scheme %s not found", schemeID))
	}
	ch, ok := s.Chapter(chapter)
	if !ok {
		return located{}, app.ValidationError(app.ErrCodeNotFound, fmt.Sprintf("chapter %d not found", chapter))
	}
	return located{scheme: s, chapter: ch}, nil
}

func (o *Orchestrator) locate(ref domain.SessionRef) (located, error) {
	loc, err := o.locateChapter(ref.SchemeID, ref.ChapterNumber)
	if err != nil {
		return loc, err
	}
	sess, ok := loc.chapter.Chapter.Session(ref.SessionNumber)
	if !ok {
		return loc, app.ValidationError(app.ErrCodeNotFound, fmt.Sprintf("session %s not found", ref))
	}
	loc.session = sess
	return loc, nil
}

// Click resolves what selecting a session leads to. Preparing is refused for
// locked chapters and, in bulk-only mode, for regular sessions.
func (o *Orchestrator) Click(ref domain.SessionRef) (app.ClickResult, error) {
	loc, err := o.locate(ref)
	if err != nil {
		return app.ClickResult{}, err
	}
	res := app.ClickResult{
		Ref:     ref,
		Action:  engine.ActionFor(loc.session.Status.State),
		Session: *loc.session,
	}
	switch res.Action {
	case domain.ActionNone:
		res.Message = "This session was cancelled."
	case domain.ActionPrepare:
		if !loc.chapter.Chapter.CanPrepare {
			return res, app.GateError(app.ErrCodeChapterLocked,
				domain.CoalesceStr(loc.chapter.Chapter.LockReason, "This chapter is locked."))
		}
		if o.BulkOnly() && !loc.session.IsExtended {
			return res, app.GateError(app.ErrCodeBulkOnly,
				"Bulk-only mode is on. Use Prepare All for this chapter.")
		}
	}
	return res, nil
}

// examIndexFor returns the index for scope, rebuilding it when the scope
// changed or a reload invalidated it.
func (o *Orchestrator) examIndexFor(ctx context.Context, scope domain.Scope) (*engine.ExamIndex, error) {
	o.mu.Lock()
	idx := o.examIndex
	o.mu.Unlock()
	if idx != nil && domain.SameScope(idx.Scope(), scope) {
		return idx, nil
	}

	exams, err := o.exams.Exams(ctx, scope)
	if err != nil {
		return nil, app.LoadError(app.ErrCodeLoadFailed, "could not load the exam calendar", err)
	}
	idx = engine.NewExamIndex(scope, exams)

	o.mu.Lock()
	o.examIndex = idx
	o.mu.Unlock()
	return idx, nil
}

// candidates looks up and annotates the periods of scope inside the window.
// A lookup overtaken by a newer one for the same scope returns ErrSuperseded.
func (o *Orchestrator) candidates(ctx context.Context, scope domain.Scope, window domain.PlanningWindow, excludeOccupied bool) ([]domain.AnnotatedSlot, error) {
	tk := o.lookups.Begin(scope)
	slots, err := o.periods.Periods(ctx, app.PeriodQuery{
		TeacherID:       o.teacherID,
		Scope:           scope,
		From:            window.Start,
		To:              window.End,
		ExcludeOccupied: excludeOccupied,
	})
	if err != nil {
		return nil, app.LoadError(app.ErrCodeLoadFailed, "could not load available periods", err)
	}
	if !o.lookups.Current(tk) {
		return nil, ErrSuperseded
	}
	idx, err := o.examIndexFor(ctx, scope)
	if err != nil {
		return nil, err
	}
	return idx.Annotate(slots), nil
}

// SingleDraft is an open single-session preparation form.
type SingleDraft struct {
	Ref         domain.SessionRef
	Scope       domain.Scope
	ChapterName string
	SessionName string
	IsExtended  bool
	DurationMin int
	Slots       []domain.AnnotatedSlot
	Fields      domain.PlanFields
	Window      domain.PlanningWindow

	selected int
}

// Select picks Slots[i]. Occupied, unavailable and hard-conflict slots are
// refused.
func (d *SingleDraft) Select(i int) error {
	if i < 0 || i >= len(d.Slots) {
		return app.ValidationError(app.ErrCodeSlotUnavailable, fmt.Sprintf("no period at position %d", i+1))
	}
	slot := d.Slots[i]
	if !slot.Selectable() {
		msg := "This period is not available."
		if slot.Conflict.Level == domain.ConflictHard {
			msg = slot.Conflict.Message()
		}
		return app.ValidationError(app.ErrCodeSlotUnavailable, msg)
	}
	d.selected = i
	return nil
}

// Selected returns the chosen slot.
func (d *SingleDraft) Selected() (domain.AnnotatedSlot, bool) {
	if d.selected < 0 || d.selected >= len(d.Slots) {
		return domain.AnnotatedSlot{}, false
	}
	return d.Slots[d.selected], true
}

// CanSubmit reports whether the create action is enabled at now.
func (d *SingleDraft) CanSubmit(now time.Time) bool {
	_, ok := d.Selected()
	return ok && d.Window.SubmissionAllowed(now)
}

// BeginSingle opens the preparation form for one not-planned session.
func (o *Orchestrator) BeginSingle(ctx context.Context, ref domain.SessionRef) (d *SingleDraft, err error) {
	sp := startSpan(o.observer, "begin-single")
	sp.set("session", ref.String())
	defer func() { sp.done(ctx, err) }()

	click, err := o.Click(ref)
	if err != nil {
		return nil, err
	}
	if click.Action != domain.ActionPrepare {
		return nil, app.GateError(app.ErrCodeNotPreparable,
			fmt.Sprintf("session is %s and cannot be prepared", click.Session.Status.State.Label()))
	}
	loc, err := o.locate(ref)
	if err != nil {
		return nil, err
	}

	scope := loc.scheme.Scheme.Scope()
	window := o.loader.Tree().Window
	slots, err := o.candidates(ctx, scope, window, false)
	if err != nil {
		return nil, err
	}
	sp.set("slots", len(slots))

	return &SingleDraft{
		Ref:         ref,
		Scope:       scope,
		ChapterName: loc.chapter.Chapter.Name,
		SessionName: loc.session.Name,
		IsExtended:  loc.session.IsExtended,
		DurationMin: loc.session.EstimatedDuration,
		Slots:       slots,
		Fields:      loc.session.Fields,
		Window:      window,
		selected:    -1,
	}, nil
}

// SubmitSingle validates and writes the draft, then reloads the tree. On any
// failure the draft and the tree are left as they were.
func (o *Orchestrator) SubmitSingle(ctx context.Context, d *SingleDraft) (res *app.PlanResult, err error) {
	sp := startSpan(o.observer, "submit-single")
	sp.set("session", d.Ref.String())
	defer func() { sp.done(ctx, err) }()

	slot, ok := d.Selected()
	if !ok {
		return nil, app.ValidationError(app.ErrCodeNoPeriod, "select a date and period first")
	}
	if fe := validatePlanFields(d.Fields); len(fe) > 0 {
		return nil, app.ValidationError(app.ErrCodeMissingFields, "complete the required fields", fe...)
	}
	if !d.Window.SubmissionAllowed(o.now()) {
		return nil, submissionDayError(d.Window)
	}

	tk := o.submits.Begin(d.Scope)
	res, err = o.writer.CreateSingle(ctx, app.SinglePlanRequest{
		TeacherID:     o.teacherID,
		SchemeID:      d.Ref.SchemeID,
		Scope:         d.Scope,
		ChapterNumber: d.Ref.ChapterNumber,
		Draft: app.PlanDraft{
			SessionNumber: d.Ref.SessionNumber,
			SessionName:   d.SessionName,
			Date:          slot.Date,
			Period:        slot.Period,
			IsExtended:    d.IsExtended,
			DurationMin:   d.DurationMin,
			Fields:        d.Fields,
		},
	})
	if err := checkWrite(res, err, 1); err != nil {
		return nil, err
	}
	if !o.submits.Current(tk) {
		return nil, ErrSuperseded
	}
	o.reload(ctx, sp)
	return res, nil
}

// BulkEntry is one session of a bulk preparation.
type BulkEntry struct {
	SessionNumber int
	SessionName   string
	Slot          domain.AnnotatedSlot
	Fields        domain.PlanFields
}

// BulkDraft walks N entries in order. Moving forward requires the current
// entry's objectives and methods.
type BulkDraft struct {
	SchemeID      string
	ChapterNumber int
	ChapterName   string
	Scope         domain.Scope
	Extended      bool
	DurationMin   int
	Entries       []BulkEntry
	Window        domain.PlanningWindow

	pos int
}

func (d *BulkDraft) Len() int   { return len(d.Entries) }
func (d *BulkDraft) Index() int { return d.pos }

func (d *BulkDraft) Current() *BulkEntry {
	return &d.Entries[d.pos]
}

// AtEnd reports whether the current entry is the last one.
func (d *BulkDraft) AtEnd() bool { return d.pos == len(d.Entries)-1 }

// Set replaces the current entry's fields.
func (d *BulkDraft) Set(f domain.PlanFields) {
	d.Entries[d.pos].Fields = f
}

// Next validates the current entry and advances. On the last entry it only
// validates.
func (d *BulkDraft) Next() error {
	if fe := validatePlanFields(d.Entries[d.pos].Fields); len(fe) > 0 {
		return app.ValidationError(app.ErrCodeMissingFields,
			fmt.Sprintf("complete %s before moving on", d.Entries[d.pos].SessionName), fe...)
	}
	if !d.AtEnd() {
		d.pos++
	}
	return nil
}

// Prev steps back one entry; it never validates.
func (d *BulkDraft) Prev() bool {
	if d.pos == 0 {
		return false
	}
	d.pos--
	return true
}

// BeginBulk opens a bulk preparation for a chapter with no planned sessions,
// or for one extended session when extended is set.
func (o *Orchestrator) BeginBulk(ctx context.Context, schemeID string, chapter int, extended bool) (d *BulkDraft, err error) {
	sp := startSpan(o.observer, "begin-bulk")
	sp.set("scheme_id", schemeID)
	sp.set("chapter", chapter)
	sp.set("extended", extended)
	defer func() { sp.done(ctx, err) }()

	loc, err := o.locateChapter(schemeID, chapter)
	if err != nil {
		return nil, err
	}
	ch := loc.chapter.Chapter
	if !ch.CanPrepare {
		return nil, app.GateError(app.ErrCodeChapterLocked, domain.CoalesceStr(ch.LockReason, "This chapter is locked."))
	}

	var numbers []int
	if extended {
		if !loc.chapter.Affordances.AddExtended {
			return nil, app.GateError(app.ErrCodeNotPreparable,
				"extended sessions can be added once every session is reported and the chapter is not complete")
		}
		numbers = []int{loc.chapter.Affordances.ExtendedTarget}
	} else {
		if !loc.chapter.Affordances.PrepareAll {
			return nil, app.GateError(app.ErrCodeNotPreparable,
				"bulk preparation needs a chapter with sessions and none planned yet")
		}
		for n := 1; n <= ch.TotalSessions; n++ {
			numbers = append(numbers, n)
		}
	}

	scope := loc.scheme.Scheme.Scope()
	window := o.loader.Tree().Window
	slots, err := o.candidates(ctx, scope, window, true)
	if err != nil {
		return nil, err
	}

	picked := make([]domain.AnnotatedSlot, 0, len(numbers))
	for _, s := range slots {
		if len(picked) == len(numbers) {
			break
		}
		if s.Selectable() {
			picked = append(picked, s)
		}
	}
	if len(picked) < len(numbers) {
		return nil, app.ValidationError(app.ErrCodeNotEnoughPeriods,
			fmt.Sprintf("need %d free periods in the planning window, found %d", len(numbers), len(picked)))
	}

	d = &BulkDraft{
		SchemeID:      schemeID,
		ChapterNumber: chapter,
		ChapterName:   ch.Name,
		Scope:         scope,
		Extended:      extended,
		Entries:       make([]BulkEntry, len(numbers)),
		Window:        window,
	}
	for i, n := range numbers {
		name := domain.DefaultSessionName(n)
		if s, ok := ch.Session(n); ok {
			name = s.Name
			d.DurationMin = max(d.DurationMin, s.EstimatedDuration)
		}
		d.Entries[i] = BulkEntry{SessionNumber: n, SessionName: name, Slot: picked[i]}
	}
	sp.set("entries", len(d.Entries))
	return d, nil
}

// SubmitBulk writes every entry in one all-or-nothing request.
func (o *Orchestrator) SubmitBulk(ctx context.Context, d *BulkDraft) (res *app.PlanResult, err error) {
	sp := startSpan(o.observer, "submit-bulk")
	sp.set("scheme_id", d.SchemeID)
	sp.set("chapter", d.ChapterNumber)
	defer func() { sp.done(ctx, err) }()

	var missing []app.FieldError
	for _, e := range d.Entries {
		for _, fe := range validatePlanFields(e.Fields) {
			missing = append(missing, app.FieldError{Field: e.SessionName + " " + fe.Field, Message: fe.Message})
		}
	}
	if len(missing) > 0 {
		return nil, app.ValidationError(app.ErrCodeIncompleteEntries, "every session needs objectives and methods", missing...)
	}
	if !d.Window.SubmissionAllowed(o.now()) {
		return nil, submissionDayError(d.Window)
	}

	req := app.BulkPlanRequest{
		TeacherID:     o.teacherID,
		SchemeID:      d.SchemeID,
		Scope:         d.Scope,
		ChapterNumber: d.ChapterNumber,
		Extended:      d.Extended,
		Drafts:        make([]app.PlanDraft, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		req.Drafts = append(req.Drafts, app.PlanDraft{
			SessionNumber: e.SessionNumber,
			SessionName:   e.SessionName,
			Date:          e.Slot.Date,
			Period:        e.Slot.Period,
			IsExtended:    d.Extended,
			DurationMin:   d.DurationMin,
			Fields:        e.Fields,
		})
	}

	tk := o.submits.Begin(d.Scope)
	res, err = o.writer.CreateBulk(ctx, req)
	if err := checkWrite(res, err, len(req.Drafts)); err != nil {
		return nil, err
	}
	if !o.submits.Current(tk) {
		return nil, ErrSuperseded
	}
	sp.set("created_count", len(req.Drafts))
	o.reload(ctx, sp)
	return res, nil
}

// checkWrite maps a writer answer onto the write error class. A reported
// count must match what was sent; an absent count is taken as success.
func checkWrite(res *app.PlanResult, err error, want int) error {
	if err != nil {
		return app.WriteError(app.ErrCodeWriteFailed, "saving the lesson plan failed", err)
	}
	if res == nil || !res.Success {
		msg := "the plan writer refused the request"
		if res != nil && res.Message != "" {
			msg = res.Message
		}
		return app.WriteError(app.ErrCodeWriteFailed, msg, nil)
	}
	if res.CreatedCount != nil && *res.CreatedCount != want {
		return app.WriteError(app.ErrCodeWriteMalformed,
			fmt.Sprintf("writer reported %d plans created, expected %d", *res.CreatedCount, want), nil)
	}
	return nil
}

func submissionDayError(w domain.PlanningWindow) error {
	return app.ValidationError(app.ErrCodeSubmissionDay,
		fmt.Sprintf("lesson plans can only be submitted on %s", w.SubmissionDay.String()))
}

// reload refreshes the tree after a successful write. The write already
// succeeded, so a failed reload is only recorded.
func (o *Orchestrator) reload(ctx context.Context, sp *span) {
	out, err := o.loader.Load(ctx)
	sp.set("reload", string(out.Status))
	if err != nil {
		sp.set("reload_error", err.Error())
	}
}

// Suggest drafts plan fields for a session. It never fails: without a
// suggestion source, or when the source errors, it returns empty fields and a
// warning for the caller to show.
func (o *Orchestrator) Suggest(ctx context.Context, ref domain.SessionRef) (domain.PlanFields, string) {
	if o.suggester == nil {
		return domain.PlanFields{}, "AI suggestions are not enabled."
	}
	loc, err := o.locate(ref)
	if err != nil {
		return domain.PlanFields{}, err.Error()
	}
	f, err := o.suggester.Suggest(ctx, app.SuggestionRequest{
		Scope:         loc.scheme.Scheme.Scope(),
		SchemeID:      ref.SchemeID,
		ChapterNumber: ref.ChapterNumber,
		ChapterName:   loc.chapter.Chapter.Name,
		SessionNumber: ref.SessionNumber,
		SessionName:   loc.session.Name,
		DurationMin:   loc.session.EstimatedDuration,
	})
	if err != nil || f == nil {
		return domain.PlanFields{}, "Could not get a suggestion; fill the fields in yourself."
	}
	return *f, ""
}
