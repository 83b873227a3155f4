// Package observable provides a small publish-on-change broadcast with
// replay of the last value to new subscribers.
package observable

import (
	"context"
	"sync"
)

// Subject holds a current value and pushes every new value to its subscribers.
//
// Each subscriber channel has a single slot. A subscriber that falls behind
// only ever sees the newest value, never a backlog.
type Subject[T any] struct {
	mu       sync.Mutex
	value    T
	hasValue bool
	nextID   int
	subs     map[int]chan T
}

// NewSubject returns a subject with no value; subscribers wait for the first Publish.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]chan T)}
}

// NewSubjectWithValue returns a subject seeded with initial.
func NewSubjectWithValue[T any](initial T) *Subject[T] {
	s := NewSubject[T]()
	s.value = initial
	s.hasValue = true
	return s
}

// Publish stores v and delivers it to every subscriber.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	s.hasValue = true
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Update applies fn to the current value under the lock and publishes the result.
func (s *Subject[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = fn(s.value)
	s.hasValue = true
	for _, ch := range s.subs {
		offer(ch, s.value)
	}
	return s.value
}

// Value returns the current value and whether one was ever published.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.hasValue
}

// Subscribe returns a channel that first receives the current value (if any)
// and then every later one. The channel is closed once ctx is done.
func (s *Subject[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.hasValue {
		ch <- s.value
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Subscribers reports the number of live subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// View returns the read side of s. Holders of a View can observe values but
// cannot publish them.
func (s *Subject[T]) View() View[T] {
	return View[T]{s: s}
}

// View is a read-only handle on a Subject.
type View[T any] struct {
	s *Subject[T]
}

func (v View[T]) Value() (T, bool) {
	return v.s.Value()
}

func (v View[T]) Subscribe(ctx context.Context) <-chan T {
	return v.s.Subscribe(ctx)
}

// offer replaces any unread value in ch with v. The caller must be the only
// sender on ch, otherwise the final send could block.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
