// positions holds the identifier to cursor-position table and mirrors it
// to durable settings storage through a rate-limited saver.
package positions

import "sync"

// Position is a snapshot of the edit location at the last observed change.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Store maps document identifiers to their last known cursor position.
// Writes are last-write-wins; there is no merge and no history.
type Store struct {
	mu    sync.RWMutex
	table map[string]Position
}

// NewStore builds a Store seeded with the given table. The seed is copied.
func NewStore(seed map[string]Position) *Store {
	table := make(map[string]Position, len(seed))
	for id, pos := range seed {
		table[id] = pos
	}
	return &Store{table: table}
}

// Get returns the stored position for id, if any.
func (s *Store) Get(id string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.table[id]
	return pos, ok
}

// Set stores pos under id, overwriting any previous entry.
func (s *Store) Set(id string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[id] = pos
}

// Remove deletes the entry for id. Removing a missing id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, id)
}

// Keep deletes every entry whose identifier is not in live and returns
// the number of removed entries.
func (s *Store) Keep(live map[string]struct{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id := range s.table {
		if _, ok := live[id]; !ok {
			delete(s.table, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

// Snapshot returns a copy of the table for persistence.
func (s *Store) Snapshot() map[string]Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table := make(map[string]Position, len(s.table))
	for id, pos := range s.table {
		table[id] = pos
	}
	return table
}
