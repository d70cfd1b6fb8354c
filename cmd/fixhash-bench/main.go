// Command fixhash-bench fills fixhash tables with generated strings using
// several hash functions and reports how many probe steps each one needed.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/theflywheel/fixhash"
	"github.com/theflywheel/fixhash/hashers"
)

var benchSeconds = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "fixhash",
		Subsystem: "bench",
		Name:      "fill_seconds",
		Help:      "Time it took to fill a table with twice its limit of values",
	},
	[]string{"hasher", "length"},
)

type result struct {
	length    int
	hasher    string
	snapshot  fixhash.Snapshot
	rejected  int
	destroyed int
	elapsed   time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on flags and environment")
	}

	var (
		lengthsFlag = flag.String("lengths", getEnv("FIXHASH_LENGTHS", "128,1024,8192,16384,32768,65536,1048576"), "comma-separated table limits")
		hashersFlag = flag.String("hashers", getEnv("FIXHASH_HASHERS", "string,zackw,fnv1a"), "comma-separated hashers, any of "+strings.Join(hashers.Names(), ","))
		parallel    = flag.Int("parallel", atoiDefault(getEnv("FIXHASH_PARALLEL", "1"), 1), "number of cases to run at once")
		metricsAddr = flag.String("metrics-addr", getEnv("FIXHASH_METRICS_ADDR", ""), "serve Prometheus metrics on this address")
		linger      = flag.Duration("linger", 0, "keep serving metrics this long after the run")
	)
	flag.Parse()

	lengths, err := parseLengths(*lengthsFlag)
	if err != nil {
		log.Fatalf("Invalid -lengths: %v", err)
	}
	names := strings.Split(*hashersFlag, ",")
	for _, name := range names {
		if _, err := hashers.ByName(name); err != nil {
			log.Fatalf("Invalid -hashers: %v", err)
		}
	}
	if *parallel < 1 {
		log.Fatalf("Invalid -parallel: %d", *parallel)
	}

	var registry *prometheus.Registry
	if *metricsAddr != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(benchSeconds)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			log.Fatal(http.ListenAndServe(*metricsAddr, mux))
		}()
		log.Printf("Serving metrics on %s/metrics", *metricsAddr)
	}

	results := make([]result, len(lengths)*len(names))
	var group errgroup.Group
	group.SetLimit(*parallel)
	for i, length := range lengths {
		for j, name := range names {
			r := &results[i*len(names)+j]
			group.Go(func() error {
				var err error
				*r, err = runCase(length, name, registry)
				return err
			})
		}
	}
	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}

	for i, r := range results {
		if i%len(names) == 0 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%d\n", r.length)
		}
		printResult(r)
	}

	if registry != nil && *linger > 0 {
		log.Printf("Run complete, serving metrics for another %s", *linger)
		time.Sleep(*linger)
	}
}

// runCase inserts twice the limit of values, like a workload that ignores
// ErrFull, and records the table's diagnostics before destroying it.
func runCase(length int, name string, registry *prometheus.Registry) (result, error) {
	hash, err := hashers.ByName(name)
	if err != nil {
		return result{}, err
	}
	r := result{length: length, hasher: name}
	table, err := fixhash.NewSynchronized[string](
		length,
		fixhash.HashOf[string](hash),
		fixhash.CompareOf[string](),
		fixhash.WithDestroyer(func(*string) { r.destroyed++ }),
	)
	if err != nil {
		return result{}, errors.Wrapf(err, "create table of %d values for %s", length, name)
	}

	if registry != nil {
		collector := fixhash.NewCollector(fmt.Sprintf("%s/%d", name, length), table)
		registry.MustRegister(collector)
		defer registry.Unregister(collector)
	}

	start := time.Now()
	for i := 0; i < length*2; i++ {
		value := fmt.Sprintf("abcdefghijklmnopqrstuvwxyz_value_%010d", i)
		if err := table.Insert(&value); err != nil {
			if fixhash.CodeOf(err) != fixhash.CodeFull {
				return result{}, errors.Wrapf(err, "insert value %d into %s table", i, name)
			}
			r.rejected++
		}
	}
	r.snapshot, err = table.Snapshot()
	if err != nil {
		return result{}, errors.Wrap(err, "snapshot")
	}
	r.elapsed = time.Since(start)
	benchSeconds.WithLabelValues(name, strconv.Itoa(length)).Set(r.elapsed.Seconds())

	if err := table.Destroy(); err != nil {
		return result{}, errors.Wrap(err, "destroy table")
	}
	return r, nil
}

func printResult(r result) {
	fmt.Printf("%s\n", r.hasher)
	var ratio float64
	if r.snapshot.Searches > 0 {
		ratio = float64(r.snapshot.ProbeSteps) / float64(r.snapshot.Searches)
	}
	fmt.Printf("\tsearches: %d, probe steps: %d (%f per search)\n",
		r.snapshot.Searches, r.snapshot.ProbeSteps, ratio)
	fmt.Printf("\tsize: %d/%d, capacity: %d, rejected: %d, destroyed: %d\n",
		r.snapshot.Used, r.snapshot.Limit, r.snapshot.Capacity, r.rejected, r.destroyed)
	fmt.Printf("\t%f [sec]\n", r.elapsed.Seconds())
}

func parseLengths(s string) ([]int, error) {
	var lengths []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "length %q", field)
		}
		if n <= 0 {
			return nil, errors.Errorf("length %d is not positive", n)
		}
		lengths = append(lengths, n)
	}
	return lengths, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func atoiDefault(s string, defaultValue int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultValue
}
