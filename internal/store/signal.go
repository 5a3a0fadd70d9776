// Package store holds observable values: a Signal keeps a current value and
// notifies subscribers on change; Computed derives a Signal from others and
// recomputes it whenever one of them changes.
package store

import (
	"sort"
	"sync"
)

// Dependency is anything a Computed can recompute from.
type Dependency interface {
	OnChange(fn func()) (unsubscribe func())
}

// Signal is safe for concurrent use. Subscribers run synchronously on the
// goroutine that changed the value, outside the signal's lock.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	subs  map[int]func(T)
	next  int
}

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial, subs: map[int]func(T){}}
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update replaces the value with fn(current) atomically.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for future changes.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Signal[T]) OnChange(fn func()) (unsubscribe func()) {
	return s.Subscribe(func(T) { fn() })
}

// snapshot returns subscribers in registration order. Caller holds the lock.
func (s *Signal[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

// Computed returns a signal holding fn() that is recomputed whenever any of
// deps changes. Recomputations are serialized so the stored value always
// comes from the latest inputs.
func Computed[T any](fn func() T, deps ...Dependency) *Signal[T] {
	out := NewSignal(fn())
	var mu sync.Mutex
	recompute := func() {
		mu.Lock()
		v := fn()
		out.mu.Lock()
		out.value = v
		subs := out.snapshot()
		out.mu.Unlock()
		mu.Unlock()

		for _, s := range subs {
			s(v)
		}
	}
	for _, d := range deps {
		d.OnChange(recompute)
	}
	return out
}
