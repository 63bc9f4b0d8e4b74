package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/fcat/internal/manifest"
	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
)

// TestObserveSearch tests counter and histogram updates.
func TestObserveSearch(t *testing.T) {
	m := New()

	m.ObserveSearch("name", 2*time.Millisecond, 3)
	m.ObserveSearch("name", 4*time.Millisecond, 0)
	m.ObserveSearch("content", time.Millisecond, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("name")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SearchResultsTotal.WithLabelValues("name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmptySearchesTotal.WithLabelValues("name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("content")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.SearchDuration))
}

// TestSetCatalogSize tests the catalog gauges.
func TestSetCatalogSize(t *testing.T) {
	m := New()
	m.SetCatalogSize(15, 42)

	expected := `
# HELP fcat_records_total Number of records in the catalog
# TYPE fcat_records_total gauge
fcat_records_total 15
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "fcat_records_total"))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.IndexedWordsTotal))
}

// TestSummary tests aggregation from the registry.
func TestSummary(t *testing.T) {
	m := New()

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)

	m.ObserveSearch("name", 2*time.Millisecond, 3)
	m.ObserveSearch("name", 4*time.Millisecond, 0)
	m.ObserveSearch("combined", time.Millisecond, 5)

	summary, err = m.Summary()
	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "combined", summary[0].Op)
	assert.Equal(t, uint64(1), summary[0].Count)
	assert.Equal(t, 5.0, summary[0].Results)

	name := summary[1]
	assert.Equal(t, "name", name.Op)
	assert.Equal(t, uint64(2), name.Count)
	assert.Equal(t, 1.0, name.Empty)
	assert.InDelta(t, float64(3*time.Millisecond), float64(name.Mean()), float64(time.Microsecond))
}

// TestSearcherObserver tests wiring the metrics into a searcher.
func TestSearcherObserver(t *testing.T) {
	m := New()
	s := search.New(store.NewMemoryStore(), search.WithObserver(m))
	for _, r := range manifest.Sample() {
		_, err := s.Add(r)
		require.NoError(t, err)
	}

	_, err := s.Search("report", search.DefaultOptions())
	require.NoError(t, err)
	_, err = s.SearchContent("zzzz", 0.9)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(search.OpCombined)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.SearchResultsTotal.WithLabelValues(search.OpCombined)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmptySearchesTotal.WithLabelValues(search.OpContent)))
}
