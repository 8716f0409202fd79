// scheduler serializes background index work off the event-handling
// goroutine.
package scheduler

import (
	"log"
	"sync"
)

type Task struct {
	Name    string
	Execute func() error
}

type Scheduler struct {
	mu      sync.Mutex
	tasks   chan Task
	stopped bool
	done    chan struct{}
}

// New creates a Scheduler with the specified queue size.
func New(queueSize int) *Scheduler {
	return &Scheduler{
		tasks: make(chan Task, queueSize),
		done:  make(chan struct{}),
	}
}

// Run starts the scheduler loop.
func (s *Scheduler) Run() {
	go func() {
		defer close(s.done)
		for task := range s.tasks {
			if err := task.Execute(); err != nil {
				log.Printf("scheduler: task %s failed: %v", task.Name, err)
			}
		}
	}()
}

// Schedule enqueues a task without blocking. It reports false when the
// queue is full or the scheduler has stopped.
func (s *Scheduler) Schedule(task Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	select {
	case s.tasks <- task:
		return true
	default:
		log.Printf("scheduler: skipped %s, queue is full", task.Name)
		return false
	}
}

// Stop drains the queue and waits for the running task to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.tasks)
	}
	s.mu.Unlock()
	<-s.done
}
