// session gates cursor restoration to at most one attempt per document
// per process lifetime.
package session

import "sync"

// Tracker remembers which identifiers have already been restored during
// the current session. It is never persisted; a fresh process starts
// with an empty set.
type Tracker struct {
	mu       sync.Mutex
	restored map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{restored: make(map[string]struct{})}
}

// ShouldRestore reports whether id has not yet been restored this session.
func (t *Tracker) ShouldRestore(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, seen := t.restored[id]
	return !seen
}

// MarkRestored records that a restoration attempt was made for id and
// reports whether this call was the first to mark it. Exactly one of
// any number of concurrent callers sees true.
func (t *Tracker) MarkRestored(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.restored[id]; seen {
		return false
	}
	t.restored[id] = struct{}{}
	return true
}
