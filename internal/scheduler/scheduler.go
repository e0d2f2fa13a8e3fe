// Package scheduler runs named callbacks at fixed intervals.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracklit/internal/logger"
)

var ErrInvalidInterval = errors.New("interval must be positive")

// Handle identifies a scheduled task.
type Handle struct {
	ID   string
	Name string
}

type task struct {
	Handle
	interval time.Duration
	next     time.Time
	fn       func(now time.Time)
}

type Scheduler struct {
	now func() time.Time

	mu    sync.Mutex
	tasks map[string]*task

	stopOnce sync.Once
	stop     chan struct{}
}

type Option func(*Scheduler)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		now:   time.Now,
		tasks: map[string]*task{},
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers fn to run every interval, first one interval from now.
func (s *Scheduler) Schedule(name string, interval time.Duration, fn func(now time.Time)) (Handle, error) {
	if interval <= 0 {
		return Handle{}, ErrInvalidInterval
	}
	t := &task{
		Handle:   Handle{ID: uuid.NewString(), Name: name},
		interval: interval,
		next:     s.now().Add(interval),
		fn:       fn,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	logger.Debug("Scheduled task", "name", name, "id", t.ID, "interval", interval)
	return t.Handle, nil
}

// Cancel removes a task. It reports false for unknown IDs.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Next returns when the task fires next.
func (s *Scheduler) Next(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return time.Time{}, false
	}
	return t.next, true
}

// IsDue reports whether the task's next run is at or before the clock's now.
func (s *Scheduler) IsDue(id string) bool {
	next, ok := s.Next(id)
	return ok && !next.After(s.now())
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tick runs every task due at now, earliest first, and returns how many ran.
// Missed intervals are skipped rather than replayed.
func (s *Scheduler) Tick(now time.Time) int {
	type run struct {
		at   time.Time
		name string
		fn   func(time.Time)
	}
	var due []run

	s.mu.Lock()
	for _, t := range s.tasks {
		if t.next.After(now) {
			continue
		}
		due = append(due, run{at: t.next, name: t.Name, fn: t.fn})
		for !t.next.After(now) {
			t.next = t.next.Add(t.interval)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].name < due[j].name
		}
		return due[i].at.Before(due[j].at)
	})
	for _, r := range due {
		r.fn(now)
	}
	return len(due)
}

// Run ticks every resolution until ctx is done or Stop is called.
func (s *Scheduler) Run(ctx context.Context, resolution time.Duration) error {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
