// Package fixhash_test benchmarks fixhash tables.
//
// This file fills tables to their limit with generated string values under
// every registered hash function and measures:
//   - Insertion and lookup time
//   - Probe steps per search, which reflects how well the hash spreads values
//   - Behaviour under insert/remove churn, where tombstones pile up
package fixhash_test

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/theflywheel/fixhash"
	"github.com/theflywheel/fixhash/hashers"
)

// generateUUID creates a random version 4 UUID string
func generateUUID() string {
	uuid := make([]byte, 16)
	if _, err := rand.Read(uuid); err != nil {
		panic(err)
	}
	uuid[6] = (uuid[6] & 0x0F) | 0x40
	uuid[8] = (uuid[8] & 0x3F) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:])
}

func sequentialValues(n int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprintf("abcdefghijklmnopqrstuvwxyz_value_%010d", i)
	}
	return values
}

func uuidValues(n int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = generateUUID()
	}
	return values
}

// BenchmarkFill inserts limit values and looks each of them up once.
func BenchmarkFill(b *testing.B) {
	keySets := []struct {
		name     string
		generate func(int) []string
	}{
		{"Sequential", sequentialValues},
		{"UUID", uuidValues},
	}

	for _, limit := range []int{1024, 65536} {
		for _, keySet := range keySets {
			values := keySet.generate(limit)
			for _, name := range []string{"string", "zackw", "fnv1a", "xxhash", "xxh3", "maphash"} {
				hash, err := hashers.ByName(name)
				if err != nil {
					b.Fatal(err)
				}
				b.Run(fmt.Sprintf("%s/%s/%d", keySet.name, name, limit), func(b *testing.B) {
					benchmarkFill(b, values, hash, fmt.Sprintf("%s_%s_%d", keySet.name, name, limit))
				})
			}
		}
	}
}

func benchmarkFill(b *testing.B, values []string, hash hashers.Func, metricsName string) {
	var last fixhash.Snapshot
	start := time.Now()
	for n := 0; n < b.N; n++ {
		table, err := fixhash.New[string](len(values), fixhash.HashOf[string](hash), fixhash.CompareOf[string]())
		if err != nil {
			b.Fatalf("Failed to create table: %v", err)
		}
		for i := range values {
			if err := table.Insert(&values[i]); err != nil {
				b.Fatalf("Failed to insert value %d: %v", i, err)
			}
		}
		for i := range values {
			if _, err := table.Find(&values[i]); err != nil {
				b.Fatalf("Value %d not found: %v", i, err)
			}
		}
		if last, err = table.Snapshot(); err != nil {
			b.Fatal(err)
		}
		table.Destroy()
	}
	elapsed := time.Since(start)

	perSearch := float64(last.ProbeSteps) / float64(last.Searches)
	b.ReportMetric(perSearch, "steps/search")

	metrics := BenchmarkMetrics{
		Name:       metricsName,
		Category:   "fill",
		Operations: 2 * len(values),
		NsPerOp:    float64(elapsed.Nanoseconds()) / float64(b.N),
		Metrics:    make(map[string]float64),
	}
	recordProbeMetrics(&metrics, last)
	if err := saveBenchmarkResult(metrics, "latest.json"); err != nil {
		b.Logf("Failed to save benchmark result: %v", err)
	}
}

// BenchmarkChurn keeps a table at half its limit while replacing values,
// rebuilding whenever a lookup reports an exhausted probe sequence.
func BenchmarkChurn(b *testing.B) {
	const limit = 4096
	values := sequentialValues(4 * limit)
	table, err := fixhash.New[string](limit, fixhash.HashOf[string](hashers.XXHash), fixhash.CompareOf[string]())
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}
	defer func() { table.Destroy() }()

	for i := 0; i < limit/2; i++ {
		if err := table.Insert(&values[i]); err != nil {
			b.Fatalf("Failed to insert value %d: %v", i, err)
		}
	}

	rebuilds := 0
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		in := &values[(n+limit/2)%len(values)]
		out := &values[n%len(values)]
		if err := table.Remove(out); err != nil {
			b.Fatalf("Failed to remove value %d: %v", n, err)
		}
		// Look before inserting: only a search for an absent value
		// can run out of empty slots.
		_, err := table.Find(in)
		if errors.Is(err, fixhash.ErrExhausted) {
			if table, err = table.Rebuild(); err != nil {
				b.Fatalf("Failed to rebuild: %v", err)
			}
			rebuilds++
		} else if !errors.Is(err, fixhash.ErrNotFound) {
			b.Fatalf("Unexpected lookup result for value %d: %v", n, err)
		}
		if err := table.Insert(in); err != nil {
			b.Fatalf("Failed to insert value %d: %v", n, err)
		}
	}
	b.StopTimer()

	b.ReportMetric(float64(rebuilds), "rebuilds")
	snapshot, err := table.Snapshot()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(snapshot.ProbeSteps)/float64(max(snapshot.Searches, 1)), "steps/search")
}
