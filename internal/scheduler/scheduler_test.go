package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func newTestScheduler() (*Scheduler, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestScheduleAndTick(t *testing.T) {
	s, clock := newTestScheduler()

	var fired []time.Time
	h, err := s.Schedule("water", 30*time.Minute, func(now time.Time) { fired = append(fired, now) })
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if h.ID == "" || h.Name != "water" {
		t.Errorf("unexpected handle %+v", h)
	}

	if s.IsDue(h.ID) {
		t.Error("task should not be due immediately")
	}
	if n := s.Tick(clock.Advance(29 * time.Minute)); n != 0 {
		t.Errorf("Tick ran %d tasks early", n)
	}

	now := clock.Advance(time.Minute)
	if !s.IsDue(h.ID) {
		t.Error("task should be due after one interval")
	}
	if n := s.Tick(now); n != 1 {
		t.Errorf("Tick ran %d tasks, want 1", n)
	}
	next, ok := s.Next(h.ID)
	if !ok || !next.Equal(now.Add(30*time.Minute)) {
		t.Errorf("Next = %v, %v", next, ok)
	}
	if len(fired) != 1 {
		t.Errorf("fired %d times", len(fired))
	}
}

func TestTickSkipsMissedIntervals(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0
	h, _ := s.Schedule("protein", 10*time.Minute, func(time.Time) { count++ })

	now := clock.Advance(95 * time.Minute)
	s.Tick(now)
	if count != 1 {
		t.Errorf("missed intervals should fire once, fired %d", count)
	}
	next, _ := s.Next(h.ID)
	if !next.After(now) || next.Sub(now) > 10*time.Minute {
		t.Errorf("Next = %v, want within one interval after %v", next, now)
	}
}

func TestCancel(t *testing.T) {
	s, clock := newTestScheduler()
	fired := false
	h, _ := s.Schedule("habit", time.Minute, func(time.Time) { fired = true })

	if !s.Cancel(h.ID) {
		t.Error("Cancel should report true for a known task")
	}
	if s.Cancel(h.ID) {
		t.Error("second Cancel should report false")
	}
	s.Tick(clock.Advance(time.Hour))
	if fired || s.Len() != 0 {
		t.Error("cancelled task must not run")
	}
	if _, ok := s.Next(h.ID); ok {
		t.Error("Next should miss for a cancelled task")
	}
}

func TestScheduleRejectsBadInterval(t *testing.T) {
	s, _ := newTestScheduler()
	if _, err := s.Schedule("bad", 0, func(time.Time) {}); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestRunStops(t *testing.T) {
	s := New()
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), time.Millisecond) }()

	s.Stop()
	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after Stop", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRunFiresAndHonorsContext(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	_, _ = s.Schedule("tick", time.Millisecond, func(time.Time) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
