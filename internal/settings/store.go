package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cursormark/internal/positions"
)

// Store owns the current settings and their durable copy on disk.
type Store struct {
	mu      sync.Mutex
	file    string
	current Settings
}

// Open loads the settings file at path, merging its contents over the
// defaults. A missing or unreadable file yields the defaults.
func Open(path string) *Store {
	s := &Store{file: path, current: defaultSettings}
	s.current.Positions = map[string]positions.Position{}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}
	if merged, err := Merge(s.current, raw); err == nil {
		s.current = merged
		if s.current.Positions == nil {
			s.current.Positions = map[string]positions.Position{}
		}
	}
	return s
}

// Current returns a copy of the active settings. The positions table is
// shared; use the position store for mutation.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply merges src over the active settings. The positions table is
// never taken from src; it belongs to the position store.
func (s *Store) Apply(src any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Detach the table before merging: unmarshal would otherwise merge
	// configuration input into the live map.
	base := s.current
	base.Positions = nil
	merged, err := Merge(base, src)
	if err != nil {
		return err
	}
	merged.Positions = s.current.Positions
	s.current = merged
	return nil
}

// SetPositions replaces the persisted position table.
func (s *Store) SetPositions(table map[string]positions.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Positions = table
}

// Save writes the full settings object durably.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.current, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.file), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
