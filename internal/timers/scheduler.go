// Package timers implements named, cancellable, per-client delayed callbacks.
//
// A task is keyed by (owner, name). Scheduling under an existing key replaces
// the old task instead of stacking with it. Finished tasks keep their
// arguments until they are cancelled or replaced, so callers can still look
// up what was last scheduled under a name.
package timers

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Key identifies a task.
type Key struct {
	Owner int
	Name  string
}

type task struct {
	gen   uint64
	args  any
	timer *clock.Timer
	done  bool
}

// Scheduler runs task callbacks through post, which is expected to execute
// them on the caller's single-writer loop.
type Scheduler struct {
	clock clock.Clock
	post  func(func())

	mu    sync.Mutex
	seq   uint64
	tasks map[Key]*task
}

// New builds a scheduler. A nil post runs callbacks directly on the timer goroutine.
func New(clk clock.Clock, post func(func())) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Scheduler{
		clock: clk,
		post:  post,
		tasks: make(map[Key]*task),
	}
}

// Schedule arms fire to run after delay, replacing any task under the same key.
func (s *Scheduler) Schedule(owner int, name string, delay time.Duration, args any, fire func()) {
	key := Key{Owner: owner, Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[key]; ok && old.timer != nil {
		old.timer.Stop()
	}
	s.seq++
	t := &task{gen: s.seq, args: args}
	s.tasks[key] = t

	gen := t.gen
	t.timer = s.clock.AfterFunc(delay, func() {
		s.post(func() {
			if !s.markDone(key, gen) {
				return
			}
			if fire != nil {
				fire()
			}
		})
	})
}

// markDone reports whether the task that fired is still the current one.
func (s *Scheduler) markDone(key Key, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok || t.gen != gen || t.done {
		return false
	}
	t.done = true
	return true
}

// Lookup returns the arguments last scheduled under the key.
func (s *Scheduler) Lookup(owner int, name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[Key{Owner: owner, Name: name}]
	if !ok {
		return nil, false
	}
	return t.args, true
}

// Pending reports whether the task under the key exists and has not fired yet.
func (s *Scheduler) Pending(owner int, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[Key{Owner: owner, Name: name}]
	return ok && !t.done
}

// Cancel stops and forgets the task under the key.
func (s *Scheduler) Cancel(owner int, name string) bool {
	key := Key{Owner: owner, Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	delete(s.tasks, key)
	return true
}

// CancelAll stops every task owned by owner.
func (s *Scheduler) CancelAll(owner int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.tasks {
		if key.Owner != owner {
			continue
		}
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(s.tasks, key)
	}
}

// Names lists the task names held for owner.
func (s *Scheduler) Names(owner int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for key := range s.tasks {
		if key.Owner == owner {
			names = append(names, key.Name)
		}
	}
	return names
}
