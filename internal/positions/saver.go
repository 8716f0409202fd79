package positions

import (
	"log"
	"sync"
	"time"
)

// DefaultWindow is the minimum gap between two persisted writes.
const DefaultWindow = 2000 * time.Millisecond

// Saver coalesces bursts of mutations into at most one flush per window,
// firing immediately at burst start. The flush function owns the sole
// write path to durable storage.
type Saver struct {
	mu      sync.Mutex
	window  time.Duration
	flush   func() error
	timer   *time.Timer
	pending bool
}

// NewSaver builds a Saver around flush. A window of zero falls back to
// DefaultWindow.
func NewSaver(window time.Duration, flush func() error) *Saver {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Saver{window: window, flush: flush}
}

// Trigger records a mutation. The first trigger after an idle period
// flushes immediately; triggers arriving while the window is open are
// coalesced into a single trailing flush.
func (s *Saver) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		s.write()
		s.timer = time.AfterFunc(s.window, s.windowElapsed)
		return
	}
	s.pending = true
}

func (s *Saver) windowElapsed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		s.timer = nil
		return
	}
	s.pending = false
	s.write()
	s.timer = time.AfterFunc(s.window, s.windowElapsed)
}

// Flush writes out any state unconditionally and resets the window.
// Used when the host closes the settings surface and on shutdown.
func (s *Saver) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	s.write()
}

func (s *Saver) write() {
	if err := s.flush(); err != nil {
		log.Printf("positions: flush failed: %v", err)
	}
}
