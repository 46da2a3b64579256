// Package store provides the observable state container behind every entity
// store: one server-backed collection plus its loading and error status.
package store

import "sync"

// State owns a collection of T together with loading and error flags. All
// writes go through Begin, Fail and Commit; subscribers are notified
// synchronously after each committed transition. Snapshots are copies, so
// readers never observe a half-applied write.
type State[T any] struct {
	mu      sync.Mutex
	items   []T
	loading bool
	err     string

	subs    map[int]func()
	nextSub int
}

func New[T any]() *State[T] {
	return &State[T]{subs: make(map[int]func())}
}

// Items returns a copy of the current collection.
func (s *State[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items
}

func (s *State[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last failure's message, empty when the last operation
// succeeded or none ran yet.
func (s *State[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe registers fn to run after every committed transition. The
// returned function cancels the subscription.
func (s *State[T]) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Begin marks an operation as in flight: loading set, previous error cleared.
// The collection is left untouched.
func (s *State[T]) Begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// Fail records the failure message and clears loading. The collection stays
// exactly as it was before the operation.
func (s *State[T]) Fail(msg string) {
	s.mu.Lock()
	s.err = msg
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Commit replaces the collection wholesale with the server's response and
// clears loading and error.
func (s *State[T]) Commit(items []T) {
	s.mu.Lock()
	s.items = items
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *State[T]) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
