package timers

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// queue collects posted callbacks so tests run them on their own goroutine.
type queue chan func()

func (q queue) post(fn func()) { q <- fn }

func (q queue) runOne(t *testing.T) {
	t.Helper()
	select {
	case fn := <-q:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a posted callback")
	}
}

func (q queue) expectEmpty(t *testing.T) {
	t.Helper()
	select {
	case <-q:
		t.Fatalf("unexpected posted callback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduleFiresAndKeepsArgs(t *testing.T) {
	mock := clock.NewMock()
	q := make(queue, 4)
	s := New(mock, q.post)

	fired := 0
	s.Schedule(1, "as_handicap", 5*time.Second, "payload", func() { fired++ })

	if !s.Pending(1, "as_handicap") {
		t.Fatalf("expected task to be pending")
	}

	mock.Add(5 * time.Second)
	q.runOne(t)

	if fired != 1 {
		t.Fatalf("expected callback to fire once, fired %d", fired)
	}
	if s.Pending(1, "as_handicap") {
		t.Fatalf("expected task to be finished")
	}
	args, ok := s.Lookup(1, "as_handicap")
	if !ok || args != "payload" {
		t.Fatalf("expected args to survive firing, got %v %v", args, ok)
	}
}

func TestScheduleReplacesInsteadOfStacking(t *testing.T) {
	mock := clock.NewMock()
	q := make(queue, 4)
	s := New(mock, q.post)

	var got []string
	s.Schedule(1, "task", 5*time.Second, "first", func() { got = append(got, "first") })
	s.Schedule(1, "task", 10*time.Second, "second", func() { got = append(got, "second") })

	mock.Add(5 * time.Second)
	q.expectEmpty(t)

	mock.Add(5 * time.Second)
	q.runOne(t)

	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("expected only the replacement to fire, got %v", got)
	}
	if args, _ := s.Lookup(1, "task"); args != "second" {
		t.Fatalf("expected replacement args, got %v", args)
	}
}

func TestCancelAndCancelAll(t *testing.T) {
	mock := clock.NewMock()
	q := make(queue, 4)
	s := New(mock, q.post)

	s.Schedule(1, "a", time.Second, nil, func() { t.Errorf("cancelled task fired") })
	s.Schedule(1, "b", time.Second, nil, func() { t.Errorf("cancelled task fired") })
	s.Schedule(2, "a", time.Second, 2, nil)

	if !s.Cancel(1, "a") {
		t.Fatalf("expected cancel to report an existing task")
	}
	if s.Cancel(1, "a") {
		t.Fatalf("expected second cancel to report nothing")
	}
	if _, ok := s.Lookup(1, "a"); ok {
		t.Fatalf("expected lookup to miss after cancel")
	}

	s.CancelAll(1)
	if names := s.Names(1); len(names) != 0 {
		t.Fatalf("expected no tasks for owner 1, got %v", names)
	}
	if _, ok := s.Lookup(2, "a"); !ok {
		t.Fatalf("expected owner 2 task to survive")
	}

	mock.Add(time.Second)
	q.runOne(t) // owner 2 task
	q.expectEmpty(t)
}
