package hnsw

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors exported by a single index
// instance. Each Builder/Index owns its own registry rather than
// registering into prometheus.DefaultRegisterer, so multiple indexes (or
// repeated construction in tests) never collide on metric names.
type Metrics struct {
	Registry *prometheus.Registry

	InsertsTotal   prometheus.Counter
	InsertDuration prometheus.Histogram
	QueriesTotal   prometheus.Counter
	QueryDuration  prometheus.Histogram
	GraphSize      prometheus.Gauge
	PrunesTotal    prometheus.Counter
}

// NewMetrics builds a fresh, self-contained metrics set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		InsertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hnsw_inserts_total",
			Help: "Total number of points inserted into the index.",
		}),
		InsertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hnsw_insert_duration_seconds",
			Help:    "Latency of a single point insertion.",
			Buckets: prometheus.DefBuckets,
		}),
		QueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hnsw_queries_total",
			Help: "Total number of Search calls served.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hnsw_query_duration_seconds",
			Help:    "Latency of a single Search call.",
			Buckets: prometheus.DefBuckets,
		}),
		GraphSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hnsw_graph_size",
			Help: "Number of points currently held in the base layer.",
		}),
		PrunesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hnsw_neighbor_prunes_total",
			Help: "Total number of neighbor lists pruned back under their degree cap.",
		}),
	}
	reg.MustRegister(m.InsertsTotal, m.InsertDuration, m.QueriesTotal, m.QueryDuration, m.GraphSize, m.PrunesTotal)
	return m
}
