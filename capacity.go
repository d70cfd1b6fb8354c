package fixhash

import "math/bits"

const (
	minCapacityShift = 4
	// maxCapacityShift is exclusive: 2^62 on 64-bit platforms, 2^30 on 32-bit.
	maxCapacityShift = bits.UintSize - 1
)

// calcCapacity returns the smallest power of two strictly greater than limit,
// never less than 2^minCapacityShift. It returns 0 if limit is not positive or
// no such power fits the platform word.
func calcCapacity(limit int) int {
	if limit <= 0 {
		return 0
	}
	for i := minCapacityShift; i < maxCapacityShift; i++ {
		if r := 1 << i; r > limit {
			return r
		}
	}
	return 0
}
