package fixhash

import (
	"fmt"
	"math/bits"
)

// Allocator accounts for the memory a table holds. A table calls Allocate
// exactly twice during New, once for the table record (count 1) and once for
// the slot array (count equal to Capacity), and the matching Deallocate calls
// when it is destroyed. Clear never allocates.
//
// The Go runtime still performs the actual allocation; an Allocator decides
// whether the table may have the memory. Returning an error from Allocate
// makes New fail with ErrOutOfMemory.
type Allocator interface {
	Allocate(count, size uintptr) error
	Deallocate(count, size uintptr)
}

// maxAllocBytes bounds a single region handed out by the heap allocator.
// Requests above it can never be satisfied by the runtime.
const maxAllocBytes = 1<<(31+bits.UintSize/64*16) - 1

type heapAllocator struct{}

// HeapAllocator returns the default Allocator. It refuses only requests
// whose byte size overflows or exceeds what the runtime could allocate.
func HeapAllocator() Allocator {
	return heapAllocator{}
}

func (heapAllocator) Allocate(count, size uintptr) error {
	_, err := regionSize(count, size)
	return err
}

func (heapAllocator) Deallocate(count, size uintptr) {}

func regionSize(count, size uintptr) (uintptr, error) {
	hi, lo := bits.Mul(uint(count), uint(size))
	if hi != 0 || lo > maxAllocBytes {
		return 0, fmt.Errorf("region of %d x %d bytes is too large", count, size)
	}
	return uintptr(lo), nil
}

// BudgetAllocator refuses allocations once the bytes held by its tables
// would exceed a fixed budget. It may be shared by several tables, but like
// the tables themselves it is not safe for concurrent use.
type BudgetAllocator struct {
	budget uintptr
	inUse  uintptr
}

// NewBudgetAllocator creates a BudgetAllocator limited to budget bytes.
func NewBudgetAllocator(budget uintptr) *BudgetAllocator {
	return &BudgetAllocator{budget: budget}
}

func (a *BudgetAllocator) Allocate(count, size uintptr) error {
	n, err := regionSize(count, size)
	if err != nil {
		return err
	}
	if n > a.budget-a.inUse {
		return fmt.Errorf("%d bytes requested, %d of %d bytes available", n, a.budget-a.inUse, a.budget)
	}
	a.inUse += n
	return nil
}

func (a *BudgetAllocator) Deallocate(count, size uintptr) {
	n, err := regionSize(count, size)
	if err != nil || n > a.inUse {
		a.inUse = 0
		return
	}
	a.inUse -= n
}

// InUse returns the number of bytes currently held.
func (a *BudgetAllocator) InUse() uintptr {
	return a.inUse
}
