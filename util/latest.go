package util

import "sync"

// Latest hands the most recent of a series of values from a producer to
// one consumer without ever blocking the producer. Values set between two
// takes are collapsed into the last one.
type Latest[T any] struct {
	mu    sync.Mutex
	value T
	fresh bool
	wake  chan struct{}
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{
		wake: make(chan struct{}, 1),
	}
}

// Set stores v and wakes the consumer.
func (l *Latest[T]) Set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = v
	l.fresh = true
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Wake is readable after a Set. It is only a hint, call Take to find out
// whether a value is actually waiting.
func (l *Latest[T]) Wake() <-chan struct{} {
	return l.wake
}

// Take returns the last value set and true if it has not been taken yet.
// The value is marked as taken in the same step, so a Set racing with Take
// is either returned now or by the next Take, never lost.
func (l *Latest[T]) Take() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.wake:
	default:
	}
	fresh := l.fresh
	l.fresh = false
	return l.value, fresh
}

// Peek returns the last value set without taking it.
func (l *Latest[T]) Peek() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}
