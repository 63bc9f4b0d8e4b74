// Package metrics provides Prometheus metrics for catalog searches.
package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "fcat"

// Metrics holds all Prometheus metrics for a catalog. Each instance owns its
// registry so several catalogs can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// Search metrics
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     *prometheus.HistogramVec
	SearchResultsTotal *prometheus.CounterVec
	EmptySearchesTotal *prometheus.CounterVec

	// Catalog metrics
	RecordsTotal      prometheus.Gauge
	IndexedWordsTotal prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches",
			},
			[]string{"op"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of searches in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"op"},
		),
		SearchResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_results_total",
				Help:      "Total number of results returned by searches",
			},
			[]string{"op"},
		),
		EmptySearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "empty_searches_total",
				Help:      "Total number of searches that returned no results",
			},
			[]string{"op"},
		),

		RecordsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Number of records in the catalog",
			},
		),
		IndexedWordsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "indexed_words_total",
				Help:      "Number of distinct words in the name index",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSearch records a completed search.
func (m *Metrics) ObserveSearch(op string, elapsed time.Duration, results int) {
	m.SearchesTotal.WithLabelValues(op).Inc()
	m.SearchDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.SearchResultsTotal.WithLabelValues(op).Add(float64(results))
	if results == 0 {
		m.EmptySearchesTotal.WithLabelValues(op).Inc()
	}
}

// SetCatalogSize updates the catalog gauges.
func (m *Metrics) SetCatalogSize(records, words int) {
	m.RecordsTotal.Set(float64(records))
	m.IndexedWordsTotal.Set(float64(words))
}

// OpSummary aggregates the searches of one operation.
type OpSummary struct {
	Op       string
	Count    uint64
	Results  float64
	Empty    float64
	Duration time.Duration
}

// Mean returns the average search duration.
func (s OpSummary) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Duration / time.Duration(s.Count)
}

// Summary gathers the registry and returns one entry per observed operation,
// sorted by name.
func (m *Metrics) Summary() ([]OpSummary, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	byOp := make(map[string]*OpSummary)
	get := func(metric *dto.Metric) *OpSummary {
		op := labelValue(metric, "op")
		s, ok := byOp[op]
		if !ok {
			s = &OpSummary{Op: op}
			byOp[op] = s
		}
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_search_duration_seconds":
			for _, metric := range mf.GetMetric() {
				h := metric.GetHistogram()
				s := get(metric)
				s.Count = h.GetSampleCount()
				s.Duration = time.Duration(h.GetSampleSum() * float64(time.Second))
			}
		case namespace + "_search_results_total":
			for _, metric := range mf.GetMetric() {
				get(metric).Results = metric.GetCounter().GetValue()
			}
		case namespace + "_empty_searches_total":
			for _, metric := range mf.GetMetric() {
				get(metric).Empty = metric.GetCounter().GetValue()
			}
		}
	}

	out := make([]OpSummary, 0, len(byOp))
	for _, s := range byOp {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Op < out[j].Op
	})
	return out, nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
