package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *MemoryStore {
	t.Helper()

	s := NewMemoryStore(WithClock(stepClock(epoch)))
	records := []Record{
		{ID: 1, Name: "Report Q1.docx", Type: "document", Size: 250, Content: "Q1 financial report content...", Tags: []string{"report", "financial", "Q1"}},
		{ID: 2, Name: "logo.png", Type: "image", Size: 450, Content: "Binary image content...", Tags: []string{"logo", "branding"}},
		{ID: 3, Name: "customer_data.csv", Type: "spreadsheet", Size: 720, Content: "Customer,Email,Purchase", Tags: []string{"customer", "data"}},
		{ID: 4, Name: "presentation.pptx", Type: "presentation", Size: 1200, Content: "Company presentation content...", Tags: []string{"presentation", "company"}},
		{ID: 5, Name: "Report Q2.docx", Type: "document", Size: 275, Content: "Q2 financial report content...", Tags: []string{"report", "financial", "Q2"}},
		{ID: 6, Name: "app.js", Type: "code", Size: 15, Content: "console.log('Hello World');", Tags: []string{"code", "javascript"}},
		{ID: 7, Name: "data_backup.csv", Type: "spreadsheet", Size: 890, Content: "Customer,Email,Purchase", Tags: []string{"backup", "data"}},
		{ID: 8, Name: "Report Q3.docx", Type: "document", Size: 310, Content: "Q3 financial report content...", Tags: []string{"report", "financial", "Q3"}},
		{ID: 9, Name: "style.css", Type: "code", Size: 22, Content: "body { font-family: Arial; }", Tags: []string{"code", "css"}},
		{ID: 10, Name: "Report Q4.docx", Type: "document", Size: 290, Content: "Q4 financial report content...", Tags: []string{"report", "financial", "Q4"}},
		{ID: 11, Name: "customer_data_copy.csv", Type: "spreadsheet", Size: 720, Content: "Customer,Email,Purchase", Tags: []string{"customer"}},
	}
	for _, r := range records {
		_, err := s.Insert(r)
		require.NoError(t, err)
	}
	return s
}

func ids(records []Record) []ID {
	out := make([]ID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestInsertAndGet(t *testing.T) {
	s := NewMemoryStore(WithClock(stepClock(epoch)))

	in := Record{ID: 42, Name: "notes.txt", Type: "text", Size: 10, Content: "hello", Tags: []string{"a"}}
	stored, err := s.Insert(in)
	require.NoError(t, err)

	assert.Equal(t, epoch.Add(time.Second), stored.CreatedAt)
	assert.Equal(t, stored.CreatedAt, stored.LastModified)

	got, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, stored, got)

	_, ok = s.Get(43)
	assert.False(t, ok)
}

func TestInsertKeepsCallerTimestamps(t *testing.T) {
	s := NewMemoryStore()
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	stored, err := s.Insert(Record{ID: 1, Name: "a", CreatedAt: created, LastModified: created.Add(-time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, created, stored.CreatedAt)
	assert.False(t, stored.LastModified.Before(stored.CreatedAt))
}

func TestInsertDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	before := s.Len()

	_, err := s.Insert(Record{ID: 1, Name: "other.txt", Type: "text", Tags: []string{"fresh"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Contains(t, err.Error(), "1")

	// Rejected insert leaves every index untouched
	assert.Equal(t, before, s.Len())
	assert.Empty(t, s.FindByType("text"))
	assert.Empty(t, s.FindByTag("fresh"))
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Report Q1.docx", got.Name)
}

func TestGetReturnsEveryInsertedRecord(t *testing.T) {
	s := NewMemoryStore()
	inserted := make(map[ID]Record)

	for i := 0; i < 50; i++ {
		r, err := s.Insert(Record{ID: ID(i), Name: fmt.Sprintf("File%d.js", i), Type: "code", Size: int64(i)})
		require.NoError(t, err)
		inserted[r.ID] = r

		for id, want := range inserted {
			got, ok := s.Get(id)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := setupTestStore(t)

	r, ok := s.Get(1)
	require.True(t, ok)
	r.Tags[0] = "mutated"
	r.Name = "mutated"

	again, _ := s.Get(1)
	assert.Equal(t, "Report Q1.docx", again.Name)
	assert.Equal(t, "report", again.Tags[0])
	assert.Len(t, s.FindByTag("report"), 4)
}

func TestPositionAndCollect(t *testing.T) {
	s := setupTestStore(t)

	pos, ok := s.Position(3)
	require.True(t, ok)
	assert.Equal(t, uint32(2), pos)

	_, ok = s.Position(99)
	assert.False(t, ok)

	got := s.Collect(roaring.BitmapOf(4, 0, 100))
	assert.Equal(t, []ID{1, 5}, ids(got))
	assert.Empty(t, s.Collect(nil))
}

func TestFindByName(t *testing.T) {
	s := setupTestStore(t)

	assert.Equal(t, []ID{1, 5, 8, 10}, ids(s.FindByName("report")))
	assert.Equal(t, []ID{3, 11}, ids(s.FindByName("CUSTOMER_DATA")))
	assert.Len(t, s.FindByName(""), s.Len())
	assert.Empty(t, s.FindByName("missing"))
}

func TestFindByTypeAndTagSubset(t *testing.T) {
	s := setupTestStore(t)
	all := ids(s.FindByName(""))

	for _, typ := range s.Types() {
		for _, r := range s.FindByType(typ) {
			assert.Equal(t, typ, r.Type)
			assert.Contains(t, all, r.ID)
		}
	}
	for _, tag := range s.Tags() {
		for _, r := range s.FindByTag(tag) {
			assert.True(t, r.HasTag(tag))
			assert.Contains(t, all, r.ID)
		}
	}

	assert.Equal(t, []ID{1, 5, 8, 10}, ids(s.FindByType("document")))
	assert.Equal(t, []ID{3, 7}, ids(s.FindByTag("data")))

	unseen := s.FindByType("video")
	assert.NotNil(t, unseen)
	assert.Empty(t, unseen)
	assert.NotNil(t, s.FindByTag("nope"))
}

func TestTypesAndTags(t *testing.T) {
	s := setupTestStore(t)

	assert.Equal(t, []string{"code", "document", "image", "presentation", "spreadsheet"}, s.Types())
	assert.Contains(t, s.Tags(), "financial")
	assert.IsNonDecreasing(t, s.Tags())
}

func TestSearchTextAndAnyContains(t *testing.T) {
	s := setupTestStore(t)

	assert.Equal(t, []ID{3, 7, 11}, ids(s.SearchText("Customer,Email")))
	assert.Empty(t, s.SearchText("customer,email"))
	assert.True(t, s.AnyContains("Arial"))
	assert.False(t, s.AnyContains("Helvetica"))
}

func TestFindByExactName(t *testing.T) {
	s := setupTestStore(t)

	r, ok := s.FindByExactName("Report Q3.docx")
	require.True(t, ok)
	assert.Equal(t, ID(8), r.ID)

	_, ok = s.FindByExactName("report q3.docx")
	assert.False(t, ok)

	_, ok = s.FindByExactName("Report Q5.docx")
	assert.False(t, ok)

	_, ok = NewMemoryStore().FindByExactName("anything")
	assert.False(t, ok)
}

func TestTotalSize(t *testing.T) {
	s := setupTestStore(t)
	assert.Equal(t, int64(5142), s.TotalSize())
	assert.Equal(t, int64(0), NewMemoryStore().TotalSize())
}

func TestSortedByName(t *testing.T) {
	s := setupTestStore(t)

	asc := s.SortedByName(true)
	require.Len(t, asc, s.Len())
	assert.Equal(t, "app.js", asc[0].Name)
	assert.Equal(t, "style.css", asc[len(asc)-1].Name)

	desc := s.SortedByName(false)
	assert.Equal(t, "style.css", desc[0].Name)
	assert.Equal(t, "app.js", desc[len(desc)-1].Name)
}

func TestSortedByDate(t *testing.T) {
	s := setupTestStore(t)

	asc := s.SortedByDate(true)
	assert.Equal(t, ID(1), asc[0].ID)
	assert.Equal(t, ID(11), asc[len(asc)-1].ID)

	desc := s.SortedByDate(false)
	assert.Equal(t, ID(11), desc[0].ID)
}

func TestSortedBySizeStable(t *testing.T) {
	s := setupTestStore(t)

	asc := s.SortedBySize(true)
	assert.Equal(t, ID(6), asc[0].ID)
	assert.Equal(t, ID(4), asc[len(asc)-1].ID)

	// Records 3 and 11 share size 720 and keep insertion order both ways
	desc := s.SortedBySize(false)
	assert.Equal(t, []ID{4, 7, 3, 11, 2}, ids(desc[:5]))
	i3 := indexOf(ids(asc), 3)
	i11 := indexOf(ids(asc), 11)
	assert.Less(t, i3, i11)
}

func indexOf(list []ID, id ID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func TestLargest(t *testing.T) {
	s := setupTestStore(t)

	assert.Equal(t, []ID{4, 7, 3}, ids(s.Largest(3)))
	assert.Len(t, s.Largest(100), s.Len())
	assert.Empty(t, s.Largest(0))
}

func TestDuplicates(t *testing.T) {
	s := setupTestStore(t)

	pairs := s.Duplicates()
	require.Len(t, pairs, 2)
	assert.Equal(t, ID(3), pairs[0].Original.ID)
	assert.Equal(t, ID(7), pairs[0].Duplicate.ID)
	assert.Equal(t, ID(3), pairs[1].Original.ID)
	assert.Equal(t, ID(11), pairs[1].Duplicate.ID)

	assert.Empty(t, NewMemoryStore().Duplicates())
}

func TestContentHash(t *testing.T) {
	a := Record{Content: "same"}
	b := Record{Content: "same"}
	c := Record{Content: "different"}

	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.NotEqual(t, a.ContentHash(), c.ContentHash())
	assert.Len(t, a.ContentHash(), 16)
}

func TestBatchUpdateTags(t *testing.T) {
	s := setupTestStore(t)

	before, ok := s.Get(1)
	require.True(t, ok)

	n := s.BatchUpdateTags([]ID{1, 999}, []string{"Q1-final"}, []string{"Q1"})
	assert.Equal(t, 1, n)

	assert.NotContains(t, ids(s.FindByTag("Q1")), ID(1))
	assert.Contains(t, ids(s.FindByTag("Q1-final")), ID(1))
	assert.NotContains(t, s.Tags(), "Q1")

	after, _ := s.Get(1)
	assert.Equal(t, []string{"report", "financial", "Q1-final"}, after.Tags)
	assert.True(t, after.LastModified.After(before.LastModified))
	assert.False(t, after.LastModified.Before(after.CreatedAt))
}

func TestBatchUpdateTagsNoDuplicateTags(t *testing.T) {
	s := setupTestStore(t)

	s.BatchUpdateTags([]ID{1, 5}, []string{"report", "archived"}, nil)

	r, _ := s.Get(1)
	assert.Equal(t, []string{"report", "financial", "Q1", "archived"}, r.Tags)
	assert.Equal(t, []ID{1, 5, 8, 10}, ids(s.FindByTag("report")))
	assert.Equal(t, []ID{1, 5}, ids(s.FindByTag("archived")))
}

func TestBatchUpdateTagsStrictlyAdvances(t *testing.T) {
	frozen := epoch
	s := NewMemoryStore(WithClock(func() time.Time { return frozen }))
	_, err := s.Insert(Record{ID: 1, Name: "a"})
	require.NoError(t, err)

	s.BatchUpdateTags([]ID{1}, []string{"x"}, nil)
	first, _ := s.Get(1)
	s.BatchUpdateTags([]ID{1}, []string{"y"}, nil)
	second, _ := s.Get(1)

	assert.True(t, first.LastModified.After(epoch))
	assert.True(t, second.LastModified.After(first.LastModified))
}

func TestTypeStatistics(t *testing.T) {
	s := setupTestStore(t)

	stats := s.TypeStatistics()
	require.Len(t, stats, 5)

	doc := stats["document"]
	assert.Equal(t, 4, doc.Count)
	assert.Equal(t, int64(1125), doc.TotalSize)
	assert.InDelta(t, 281.25, doc.AverageSize, 1e-9)

	for typ, st := range stats {
		assert.InDelta(t, float64(st.TotalSize)/float64(st.Count), st.AverageSize, 1e-9, typ)
	}
}

func TestReport(t *testing.T) {
	s := setupTestStore(t)

	report := s.Report()
	assert.Equal(t, 11, report.TotalFiles)
	assert.Equal(t, int64(5142), report.TotalSize)
	assert.InDelta(t, 5142.0/11.0, report.AverageSize, 1e-9)
	assert.Equal(t, []ID{4, 7, 3, 11, 2}, ids(report.LargestFiles))
	assert.Equal(t, []ID{11, 10, 9, 8, 7}, ids(report.RecentlyAdded))
	assert.Len(t, report.FileTypes, 5)

	empty := NewMemoryStore().Report()
	assert.Equal(t, 0, empty.TotalFiles)
	assert.Equal(t, 0.0, empty.AverageSize)
	assert.Empty(t, empty.LargestFiles)
}
