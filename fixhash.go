package fixhash

import (
	"iter"
	"unsafe"
)

// HashFunc maps a value to its home slot. It must be a pure function of the
// value's contents. A poor distribution only costs probe steps.
type HashFunc[T any] func(value *T) uint64

// CompareFunc reports whether two values are equal by returning zero. Only
// equality is consulted.
type CompareFunc[T any] func(a, b *T) int

// DestroyFunc releases a value the table owns. It is called exactly once for
// every value that leaves the table through Remove, Clear or Destroy.
type DestroyFunc[T any] func(value *T)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotDeleted
	slotUsed
)

type slot[T any] struct {
	state slotState
	value *T
}

// Table is a fixed-capacity hash table using open addressing with linear
// probing. It stores caller-owned pointers and never grows: the slot array
// is sized once by New to the smallest power of two greater than the limit.
//
// Removed values leave tombstones that only Clear erases, so heavy
// insert/remove churn can eventually make lookups fail with ErrExhausted.
// Rebuild the table when that happens.
//
// A Table is not safe for concurrent use. See Synchronized.
type Table[T any] struct {
	hash    HashFunc[T]
	cmp     CompareFunc[T]
	destroy DestroyFunc[T]
	alloc   Allocator

	limit      int
	used       int
	searches   uint64
	probeSteps uint64

	slots []slot[T]
}

// Snapshot is a point-in-time view of a table's occupancy and diagnostics.
type Snapshot struct {
	Used       int
	Limit      int
	Capacity   int
	Searches   uint64
	ProbeSteps uint64
}

// Option configures optional strategies of a Table.
type Option[T any] func(*config[T])

type config[T any] struct {
	destroy DestroyFunc[T]
	alloc   Allocator
}

// WithDestroyer makes the table own value destruction. Without it, the
// caller manages value lifetimes.
func WithDestroyer[T any](fn func(value *T)) Option[T] {
	return func(c *config[T]) {
		c.destroy = fn
	}
}

// WithAllocator replaces the default HeapAllocator.
func WithAllocator[T any](a Allocator) Option[T] {
	return func(c *config[T]) {
		c.alloc = a
	}
}

// New creates a table accepting up to limit values.
//
// Example:
//
//	t, err := fixhash.New[string](1024,
//		fixhash.HashOf(hashers.FNV1a),
//		fixhash.CompareOf[string](),
//	)
func New[T any](limit int, hash func(value *T) uint64, cmp func(a, b *T) int, options ...Option[T]) (*Table[T], error) {
	cfg := config[T]{alloc: HeapAllocator()}
	for _, o := range options {
		o(&cfg)
	}

	capacity := calcCapacity(limit)
	switch {
	case capacity == 0, hash == nil, cmp == nil, cfg.alloc == nil:
		return nil, ErrInvalidArgument
	}

	recordSize := unsafe.Sizeof(Table[T]{})
	slotSize := unsafe.Sizeof(slot[T]{})
	if err := cfg.alloc.Allocate(1, recordSize); err != nil {
		return nil, ErrOutOfMemory
	}
	if err := cfg.alloc.Allocate(uintptr(capacity), slotSize); err != nil {
		cfg.alloc.Deallocate(1, recordSize)
		return nil, ErrOutOfMemory
	}

	return &Table[T]{
		hash:    hash,
		cmp:     cmp,
		destroy: cfg.destroy,
		alloc:   cfg.alloc,
		limit:   limit,
		slots:   make([]slot[T], capacity),
	}, nil
}

func (t *Table[T]) valid() bool {
	return t != nil && t.slots != nil
}

// Destroy hands every stored value to the destroyer and releases the table.
// The table must not be used afterwards.
func (t *Table[T]) Destroy() error {
	if !t.valid() {
		return ErrInvalidArgument
	}
	t.destroyValues()
	t.release()
	return nil
}

func (t *Table[T]) release() {
	t.alloc.Deallocate(uintptr(len(t.slots)), unsafe.Sizeof(slot[T]{}))
	t.alloc.Deallocate(1, unsafe.Sizeof(Table[T]{}))
	t.slots = nil
	t.used = 0
}

func (t *Table[T]) destroyValues() {
	if t.destroy == nil {
		return
	}
	for i := range t.slots {
		if s := &t.slots[i]; s.state == slotUsed {
			t.destroy(s.value)
		}
	}
}

// Size returns the number of stored values.
func (t *Table[T]) Size() (int, error) {
	if !t.valid() {
		return 0, ErrInvalidArgument
	}
	return t.used, nil
}

// Stat returns the number of probe sequences run and the total number of
// slots they visited.
func (t *Table[T]) Stat() (searches, probeSteps uint64, err error) {
	if !t.valid() {
		return 0, 0, ErrInvalidArgument
	}
	return t.searches, t.probeSteps, nil
}

// Snapshot returns occupancy and diagnostics in one call.
func (t *Table[T]) Snapshot() (Snapshot, error) {
	if !t.valid() {
		return Snapshot{}, ErrInvalidArgument
	}
	return Snapshot{
		Used:       t.used,
		Limit:      t.limit,
		Capacity:   len(t.slots),
		Searches:   t.searches,
		ProbeSteps: t.probeSteps,
	}, nil
}

// Limit returns the maximum number of values the table accepts.
func (t *Table[T]) Limit() int {
	if !t.valid() {
		return 0
	}
	return t.limit
}

// Capacity returns the number of physical slots.
func (t *Table[T]) Capacity() int {
	if !t.valid() {
		return 0
	}
	return len(t.slots)
}

// Clear destroys all values and resets every slot, tombstones included, to
// empty. The diagnostic counters are cumulative and survive.
func (t *Table[T]) Clear() error {
	if !t.valid() {
		return ErrInvalidArgument
	}
	t.destroyValues()
	clear(t.slots)
	t.used = 0
	return nil
}

// probe walks the linear probe sequence of value. match is the index of the
// slot holding an equal value, or -1. free is the first empty or deleted slot
// visited, or -1. The walk stops at an equal value or an empty slot; if it
// visits every slot without either, err is ErrExhausted.
func (t *Table[T]) probe(value *T) (match, free int, err error) {
	t.searches++
	mask := uint64(len(t.slots) - 1)
	h := t.hash(value)
	free = -1
	for k := uint64(0); k <= mask; k++ {
		t.probeSteps++
		i := int((h + k) & mask)
		s := &t.slots[i]
		switch s.state {
		case slotEmpty:
			if free < 0 {
				free = i
			}
			return -1, free, nil
		case slotDeleted:
			if free < 0 {
				free = i
			}
		default:
			if t.cmp(value, s.value) == 0 {
				return i, free, nil
			}
		}
	}
	return -1, free, ErrExhausted
}

// Insert stores value. The table takes ownership of value on success only.
func (t *Table[T]) Insert(value *T) error {
	if !t.valid() || value == nil {
		return ErrInvalidArgument
	}
	if t.used >= t.limit {
		return ErrFull
	}
	match, free, err := t.probe(value)
	if match >= 0 {
		return ErrAlreadyExists
	}
	if free < 0 {
		return err
	}
	t.slots[free] = slot[T]{state: slotUsed, value: value}
	t.used++
	return nil
}

// Remove destroys the stored value equal to value and leaves a tombstone in
// its slot.
func (t *Table[T]) Remove(value *T) error {
	if !t.valid() || value == nil {
		return ErrInvalidArgument
	}
	if t.used == 0 {
		return ErrNotFound
	}
	match, _, err := t.probe(value)
	if match < 0 {
		if err != nil {
			return err
		}
		return ErrNotFound
	}
	s := &t.slots[match]
	if t.destroy != nil {
		t.destroy(s.value)
	}
	*s = slot[T]{state: slotDeleted}
	t.used--
	return nil
}

// Find returns the stored value equal to value. The stored pointer is
// returned, not the query.
func (t *Table[T]) Find(value *T) (*T, error) {
	if !t.valid() || value == nil {
		return nil, ErrInvalidArgument
	}
	if t.used == 0 {
		return nil, ErrNotFound
	}
	match, _, err := t.probe(value)
	if match < 0 {
		if err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return t.slots[match].value, nil
}

// Enumerate calls visit for every stored value in slot order until visit
// returns true. The order follows hash values, not insertion. visit must not
// mutate the table.
func (t *Table[T]) Enumerate(visit func(value *T) bool) error {
	if !t.valid() || visit == nil {
		return ErrInvalidArgument
	}
	for i := range t.slots {
		if s := &t.slots[i]; s.state == slotUsed {
			if visit(s.value) {
				break
			}
		}
	}
	return nil
}

// All returns an iterator over the stored values in slot order.
func (t *Table[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if !t.valid() {
			return
		}
		t.Enumerate(func(value *T) bool {
			return !yield(value)
		})
	}
}

// Rebuild moves every stored value into a fresh table with the same limit
// and strategies, then releases t without destroying any value. It is the
// way out of ErrExhausted when the stored values must survive. If Rebuild
// fails, t is left untouched.
func (t *Table[T]) Rebuild() (*Table[T], error) {
	if !t.valid() {
		return nil, ErrInvalidArgument
	}
	n, err := New[T](t.limit, t.hash, t.cmp, WithDestroyer[T](t.destroy), WithAllocator[T](t.alloc))
	if err != nil {
		return nil, err
	}
	mask := uint64(len(n.slots) - 1)
	for i := range t.slots {
		s := &t.slots[i]
		if s.state != slotUsed {
			continue
		}
		// Values are distinct and fewer than the capacity, so the
		// first free slot is always the right one.
		for k := t.hash(s.value); ; k++ {
			d := &n.slots[k&mask]
			if d.state == slotEmpty {
				*d = *s
				break
			}
		}
		n.used++
	}
	t.release()
	return n, nil
}
