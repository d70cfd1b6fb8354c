package fixhash

import (
	"iter"
	"sync"
)

// Synchronized guards a Table with a mutex so it can be shared between
// goroutines. Find mutates the diagnostic counters, so every call takes the
// exclusive lock.
type Synchronized[T any] struct {
	mu    sync.Mutex
	table *Table[T]
}

// NewSynchronized creates a table like New and wraps it.
func NewSynchronized[T any](limit int, hash func(value *T) uint64, cmp func(a, b *T) int, options ...Option[T]) (*Synchronized[T], error) {
	t, err := New[T](limit, hash, cmp, options...)
	if err != nil {
		return nil, err
	}
	return &Synchronized[T]{table: t}, nil
}

func (s *Synchronized[T]) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Destroy()
}

func (s *Synchronized[T]) Size() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Size()
}

func (s *Synchronized[T]) Stat() (searches, probeSteps uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Stat()
}

func (s *Synchronized[T]) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Snapshot()
}

func (s *Synchronized[T]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Clear()
}

func (s *Synchronized[T]) Insert(value *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Insert(value)
}

func (s *Synchronized[T]) Remove(value *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Remove(value)
}

func (s *Synchronized[T]) Find(value *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Find(value)
}

// Enumerate holds the lock for the whole walk. visit must not call back
// into s.
func (s *Synchronized[T]) Enumerate(visit func(value *T) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Enumerate(visit)
}

// All holds the lock while the loop body runs.
func (s *Synchronized[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.table.All()(yield)
	}
}

// Rebuild replaces the wrapped table with a rebuilt one.
func (s *Synchronized[T]) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table.Rebuild()
	if err != nil {
		return err
	}
	s.table = t
	return nil
}
