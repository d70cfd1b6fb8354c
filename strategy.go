package fixhash

import "cmp"

// HashOf adapts a hash function over values to a HashFunc over pointers.
func HashOf[T any](hash func(value T) uint64) HashFunc[T] {
	return func(value *T) uint64 {
		return hash(*value)
	}
}

// CompareOf returns a CompareFunc ordering the pointed-to values.
func CompareOf[T cmp.Ordered]() CompareFunc[T] {
	return func(a, b *T) int {
		return cmp.Compare(*a, *b)
	}
}
