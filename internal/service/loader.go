package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
)

// DefaultLoadTimeout is the soft timeout after which a scheme load stops
// blocking its caller.
const DefaultLoadTimeout = 60 * time.Second

// SlowLoadAdvisory is shown while a load runs past the soft timeout.
const SlowLoadAdvisory = "Loading schemes is taking longer than usual. They will appear once ready."

type loadResult struct {
	tree *app.SchemeTree
	err  error
}

// SchemeLoader fetches and reconstructs the scheme tree. At most one load is
// in flight from the caller's point of view: a second Load while one runs is
// suppressed. After the soft timeout the caller is released with an advisory
// while the fetch keeps running; its late result is applied unless a newer
// load has started since.
type SchemeLoader struct {
	source      app.SchemeSource
	teacherID   string
	softTimeout time.Duration
	now         func() time.Time
	observer    UseCaseObserver

	mu       sync.Mutex
	loading  bool
	gen      uint64
	tree     *app.SchemeTree
	advisory string
	lastErr  error
	onApply  []func(*app.SchemeTree)
}

func NewSchemeLoader(source app.SchemeSource, teacherID string, softTimeout time.Duration, observers ...UseCaseObserver) *SchemeLoader {
	if softTimeout <= 0 {
		softTimeout = DefaultLoadTimeout
	}
	return &SchemeLoader{
		source:      source,
		teacherID:   teacherID,
		softTimeout: softTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		observer:    useCaseObserverOrNoop(observers),
	}
}

// OnApply registers fn to run after every applied tree, outside the lock.
func (l *SchemeLoader) OnApply(fn func(*app.SchemeTree)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onApply = append(l.onApply, fn)
}

// Load fetches the teacher's schemes. A failed load keeps the previous tree
// and returns a load-class PlanError.
func (l *SchemeLoader) Load(ctx context.Context) (out app.LoadOutcome, err error) {
	sp := startSpan(l.observer, "load-schemes")
	defer func() {
		sp.set("status", string(out.Status))
		sp.done(ctx, err)
	}()

	l.mu.Lock()
	if l.loading {
		out = app.LoadOutcome{Status: app.LoadSuppressed, Advisory: l.advisory, Tree: l.tree}
		l.mu.Unlock()
		return out, nil
	}
	l.loading = true
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	done := make(chan loadResult, 1)
	fetchCtx := context.WithoutCancel(ctx)
	go func() {
		tree, err := l.fetch(fetchCtx)
		done <- loadResult{tree: tree, err: err}
	}()

	timer := time.NewTimer(l.softTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		status := l.accept(gen, res)
		out = app.LoadOutcome{Status: status, Advisory: l.Advisory(), Tree: l.Tree()}
		if res.err != nil && status != app.LoadSuperseded {
			return out, res.err
		}
		if res.tree != nil {
			sp.set("schemes", len(res.tree.Schemes))
		}
		return out, nil
	case <-timer.C:
		return l.release(gen, done), nil
	case <-ctx.Done():
		return l.release(gen, done), ctx.Err()
	}
}

// release lets the caller go while the fetch finishes in the background.
func (l *SchemeLoader) release(gen uint64, done <-chan loadResult) app.LoadOutcome {
	l.mu.Lock()
	if l.gen == gen {
		l.loading = false
		l.advisory = SlowLoadAdvisory
	}
	out := app.LoadOutcome{Status: app.LoadPending, Advisory: l.advisory, Tree: l.tree}
	l.mu.Unlock()

	go func() {
		l.accept(gen, <-done)
	}()
	return out
}

func (l *SchemeLoader) fetch(ctx context.Context) (*app.SchemeTree, error) {
	payload, err := l.source.LoadSchemes(ctx, l.teacherID)
	if err != nil {
		return nil, app.LoadError(app.ErrCodeLoadFailed, "could not load schemes", err)
	}
	return BuildTree(payload, l.now())
}

// accept applies res if gen is still the newest load.
func (l *SchemeLoader) accept(gen uint64, res loadResult) app.LoadStatus {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return app.LoadSuperseded
	}
	l.loading = false
	l.advisory = ""
	if res.err != nil {
		l.lastErr = res.err
		l.mu.Unlock()
		return app.LoadFailed
	}
	l.tree = res.tree
	l.lastErr = nil
	hooks := slices.Clone(l.onApply)
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(res.tree)
	}
	return app.LoadApplied
}

// Tree returns the last applied tree, nil before the first successful load.
func (l *SchemeLoader) Tree() *app.SchemeTree {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree
}

func (l *SchemeLoader) Advisory() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advisory
}

func (l *SchemeLoader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LastError is the error of the most recent applied-or-failed load.
func (l *SchemeLoader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
