// Package hashers provides string hash functions to plug into fixhash
// tables, from classic multiplicative hashes to xxHash.
package hashers

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/dolthub/maphash"
	"github.com/zeebo/xxh3"
)

// Func hashes a string.
type Func func(s string) uint64

// String is the classic h*31 + c string hash.
func String(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h<<5 - h + uint64(s[i])
	}
	return h
}

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// FNV1a computes the 32-bit FNV-1a hash of s.
func FNV1a(s string) uint64 {
	hash := uint32(offset32)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime32
	}
	return uint64(hash)
}

// Zackw is the h*67 + c - 113 hash once used by GCC's identifier tables.
func Zackw(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*67 + uint64(s[i]) - 113
	}
	return h
}

// Constant sends every string to the same slot. Only useful for exercising
// worst-case probing.
func Constant(string) uint64 {
	return 1
}

// XXHash computes the 64-bit xxHash of s.
func XXHash(s string) uint64 {
	return xxhash.Sum64String(s)
}

// XXH3 computes the 64-bit XXH3 hash of s.
func XXH3(s string) uint64 {
	return xxh3.HashString(s)
}

// Comparable returns a seeded hash function for any comparable type. The
// seed is chosen per call, so two results of Comparable disagree.
func Comparable[K comparable]() func(key K) uint64 {
	return maphash.NewHasher[K]().Hash
}

var registry = map[string]Func{
	"string":   String,
	"fnv1a":    FNV1a,
	"zackw":    Zackw,
	"constant": Constant,
	"xxhash":   XXHash,
	"xxh3":     XXH3,
	"maphash":  Comparable[string](),
}

// ByName returns the hash function registered under name.
func ByName(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
	return f, nil
}

// Names returns the registered hasher names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
