package fixhash

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotSource is implemented by Table and Synchronized.
type SnapshotSource interface {
	Snapshot() (Snapshot, error)
}

// Collector exports the occupancy and probe diagnostics of one table as
// Prometheus metrics labelled with the table's name.
//
// Collect runs on the scraping goroutine. Only register a Collector for a
// plain Table if nothing mutates it concurrently; use Synchronized otherwise.
// A destroyed table reports no samples.
type Collector struct {
	source SnapshotSource

	used       *prometheus.Desc
	limit      *prometheus.Desc
	capacity   *prometheus.Desc
	searches   *prometheus.Desc
	probeSteps *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func newTableDesc(name, help, table string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName("fixhash", "table", name),
		help,
		nil,
		prometheus.Labels{"name": table},
	)
}

// NewCollector creates a Collector for source.
func NewCollector(name string, source SnapshotSource) *Collector {
	return &Collector{
		source: source,

		used:       newTableDesc("used", "Number of values stored in the table", name),
		limit:      newTableDesc("limit", "Maximum number of values the table accepts", name),
		capacity:   newTableDesc("capacity", "Number of physical slots in the table", name),
		searches:   newTableDesc("searches_total", "Number of probe sequences run against the table", name),
		probeSteps: newTableDesc("probe_steps_total", "Number of slots visited by all probe sequences", name),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.used
	ch <- c.limit
	ch <- c.capacity
	ch <- c.searches
	ch <- c.probeSteps
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s, err := c.source.Snapshot()
	if err != nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(s.Used))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(s.Limit))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.searches, prometheus.CounterValue, float64(s.Searches))
	ch <- prometheus.MustNewConstMetric(c.probeSteps, prometheus.CounterValue, float64(s.ProbeSteps))
}
