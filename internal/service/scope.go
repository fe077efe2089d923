package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// ErrSuperseded is returned when a request finished after a newer request for
// the same class and subject had started. Its result was not applied.
var ErrSuperseded = errors.New("superseded by a newer request for the same class and subject")

// Ticket identifies one tracked request.
type Ticket struct {
	key string
	seq uint64
}

// ScopeTracker remembers the latest request started per class+subject.
type ScopeTracker struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewScopeTracker() *ScopeTracker {
	return &ScopeTracker{latest: make(map[string]uint64)}
}

// Begin registers a new request for scope, superseding any earlier one.
func (t *ScopeTracker) Begin(scope domain.Scope) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	k := scopeKey(scope)
	t.latest[k] = t.seq
	return Ticket{key: k, seq: t.seq}
}

// Current reports whether tk is still the newest request for its scope.
func (t *ScopeTracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[tk.key] == tk.seq
}

func scopeKey(s domain.Scope) string {
	return strings.ToLower(strings.TrimSpace(s.Class)) + "\x00" + strings.ToLower(strings.TrimSpace(s.Subject))
}
