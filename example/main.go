package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/theflywheel/fixhash"
	"github.com/theflywheel/fixhash/hashers"
)

type user struct {
	name  string
	email string
}

func main() {
	// Users are identified by name alone; email is carried along.
	hash := func(u *user) uint64 { return hashers.XXHash(u.name) }
	compare := func(a, b *user) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	}

	table, err := fixhash.New[user](8, hash, compare,
		fixhash.WithDestroyer(func(u *user) { fmt.Printf("Released %s\n", u.name) }),
	)
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer func() {
		// table may have been replaced by Rebuild
		table.Destroy()
	}()

	fmt.Printf("Table created: limit %d, capacity %d\n", table.Limit(), table.Capacity())

	for i := 0; i < 10; i++ {
		u := &user{name: fmt.Sprintf("user%d", i), email: fmt.Sprintf("user%d@example.com", i)}
		if err := table.Insert(u); errors.Is(err, fixhash.ErrFull) {
			fmt.Printf("Table full, %s not inserted\n", u.name)
		} else if err != nil {
			log.Fatalf("Failed to insert %s: %v", u.name, err)
		}
	}

	// Look up by name only
	found, err := table.Find(&user{name: "user3"})
	if err != nil {
		log.Fatalf("Failed to find user3: %v", err)
	}
	fmt.Printf("user3 => %s\n", found.email)

	// Updating a non-key field means remove and insert again
	if err := table.Remove(&user{name: "user3"}); err != nil {
		log.Fatalf("Failed to remove user3: %v", err)
	}
	if err := table.Insert(&user{name: "user3", email: "new@example.com"}); err != nil {
		log.Fatalf("Failed to reinsert user3: %v", err)
	}

	for u := range table.All() {
		fmt.Printf("%s <%s>\n", u.name, u.email)
	}

	searches, probeSteps, err := table.Stat()
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}
	fmt.Printf("searches: %d, probe steps: %d\n", searches, probeSteps)

	// Tables that ran out of empty slots must be rebuilt
	if _, err := table.Find(&user{name: "nobody"}); errors.Is(err, fixhash.ErrExhausted) {
		if table, err = table.Rebuild(); err != nil {
			log.Fatalf("Failed to rebuild: %v", err)
		}
	}

	fmt.Println("Example completed successfully")
}
