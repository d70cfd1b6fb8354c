/*
Package fixhash provides a fixed-capacity hash table using open addressing.

A Table stores caller-owned pointers. The caller supplies the hash and
comparison functions, and optionally a destroyer that releases values when
they leave the table and an Allocator that decides whether the table may
have its memory.

Basic usage:

	import (
		"github.com/theflywheel/fixhash"
		"github.com/theflywheel/fixhash/hashers"
	)

	// Accept up to 1000 strings
	t, err := fixhash.New[string](1000,
		fixhash.HashOf(hashers.FNV1a),
		fixhash.CompareOf[string](),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer t.Destroy()

	// Insert data
	v := "hello"
	err = t.Insert(&v)

	// Retrieve data
	q := "hello"
	found, err := t.Find(&q)
	if err == nil {
		fmt.Println("Stored:", *found)
	}

Features:

  - Capacity fixed at creation to the smallest power of two greater than the limit
  - Open addressing with linear probing for collision resolution
  - Duplicate values, by comparison, are rejected
  - Probe diagnostics (searches, probe steps) per table, exportable to Prometheus
  - No automatic resizing; Rebuild is an explicit operation
  - Not thread-safe; Synchronized wraps a table with a mutex

Implementation Details:

Every slot is empty, deleted or used. Insert, Remove and Find share one probe
sequence starting at hash mod capacity and advancing one slot at a time.
Searches continue past deleted slots (tombstones) and stop at an empty one.
Insert refuses new values once the limit is reached, even though physical
slots remain: the headroom keeps probe sequences short.

Tombstones are only erased by Clear. Under sustained insert/remove churn they
can fill every slot that is not in use, at which point a search for an absent
value visits the whole table and fails with ErrExhausted. The table is never
rebuilt behind the caller's back; call Rebuild to move the live values into a
fresh table, or Clear if they need not survive.
*/
package fixhash
