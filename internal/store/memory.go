package store

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MemoryStore implements Store in process memory.
//
// A single RWMutex guards the record sequence and all three indexes, so an
// insert or tag update is never observed half applied.
type MemoryStore struct {
	mu sync.RWMutex

	records []*Record
	byID    map[ID]uint32
	byType  map[string]*roaring.Bitmap
	byTag   map[string]*roaring.Bitmap

	now func() time.Time
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:   make(map[ID]uint32),
		byType: make(map[string]*roaring.Bitmap),
		byTag:  make(map[string]*roaring.Bitmap),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

// Insert adds a record and registers it in every index. Zero timestamps are
// filled from the store clock. The stored copy is returned.
func (s *MemoryStore) Insert(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return Record{}, fmt.Errorf("%w: %d", ErrDuplicateID, rec.ID)
	}

	stored := rec.clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	if stored.LastModified.Before(stored.CreatedAt) {
		stored.LastModified = stored.CreatedAt
	}

	pos := uint32(len(s.records))
	s.records = append(s.records, &stored)
	s.byID[stored.ID] = pos
	addPosting(s.byType, stored.Type, pos)
	for _, tag := range stored.Tags {
		addPosting(s.byTag, tag, pos)
	}

	log.Debug("Inserted record", "id", stored.ID, "name", stored.Name, "position", pos)
	return stored.clone(), nil
}

// Get returns the record with the given ID.
func (s *MemoryStore) Get(id ID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[pos].clone(), true
}

// Position returns the insertion position of the record with the given ID.
func (s *MemoryStore) Position(id ID) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	return pos, ok
}

// Collect returns the records at the given positions. Unknown positions are
// ignored.
func (s *MemoryStore) Collect(positions *roaring.Bitmap) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectLocked(positions)
}

// All returns every record.
func (s *MemoryStore) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLocked(func(*Record) bool { return true })
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// FindByName returns records whose name contains query, ignoring case.
func (s *MemoryStore) FindByName(query string) []Record {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLocked(func(r *Record) bool {
		return strings.Contains(strings.ToLower(r.Name), q)
	})
}

// FindByExactName binary searches the name-ordered records for name.
func (s *MemoryStore) FindByExactName(name string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := newCollator()
	sorted := s.sortedLocked(func(a, b *Record) int {
		return col.CompareString(a.Name, b.Name)
	})

	i := sort.Search(len(sorted), func(i int) bool {
		return col.CompareString(sorted[i].Name, name) >= 0
	})
	for ; i < len(sorted) && col.CompareString(sorted[i].Name, name) == 0; i++ {
		if sorted[i].Name == name {
			return sorted[i].clone(), true
		}
	}
	return Record{}, false
}

// FindByType returns the records of the given type.
func (s *MemoryStore) FindByType(typ string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectLocked(s.byType[typ])
}

// FindByTag returns the records currently carrying tag.
func (s *MemoryStore) FindByTag(tag string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectLocked(s.byTag[tag])
}

// SearchText returns records whose content contains term verbatim.
func (s *MemoryStore) SearchText(term string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLocked(func(r *Record) bool {
		return strings.Contains(r.Content, term)
	})
}

// AnyContains reports whether any record content contains term verbatim,
// stopping at the first hit.
func (s *MemoryStore) AnyContains(term string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.records, func(r *Record) bool {
		return strings.Contains(r.Content, term)
	})
}

// Types returns the distinct record types in sorted order.
func (s *MemoryStore) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.byType)
}

// Tags returns the distinct tags in use in sorted order.
func (s *MemoryStore) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.byTag)
}

// SortedByName orders records by name using locale-aware collation.
func (s *MemoryStore) SortedByName(ascending bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := newCollator()
	return cloneAll(s.sortedLocked(directed(ascending, func(a, b *Record) int {
		return col.CompareString(a.Name, b.Name)
	})))
}

// SortedByDate orders records by creation time.
func (s *MemoryStore) SortedByDate(ascending bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.sortedLocked(directed(ascending, byCreatedAt)))
}

// SortedBySize orders records by size.
func (s *MemoryStore) SortedBySize(ascending bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.sortedLocked(directed(ascending, bySize)))
}

// Largest returns up to count records with the biggest size.
func (s *MemoryStore) Largest(count int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.largestLocked(count)
}

// TotalSize sums the size of every record.
func (s *MemoryStore) TotalSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.totalSizeLocked()
}

// Duplicates pairs every record with the first earlier record holding the
// same content. Content is bucketed by its xxh64 digest and compared in full
// inside a bucket, so hash collisions never produce false pairs.
func (s *MemoryStore) Duplicates() []DuplicatePair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	firstSeen := make(map[uint64][]*Record, len(s.records))
	var pairs []DuplicatePair

	for _, r := range s.records {
		h := xxhash.Sum64String(r.Content)
		bucket := firstSeen[h]

		idx := slices.IndexFunc(bucket, func(o *Record) bool { return o.Content == r.Content })
		if idx >= 0 {
			pairs = append(pairs, DuplicatePair{
				Original:  bucket[idx].clone(),
				Duplicate: r.clone(),
			})
			continue
		}
		firstSeen[h] = append(bucket, r)
	}

	return pairs
}

// TypeStatistics returns count, total and average size per type.
func (s *MemoryStore) TypeStatistics() map[string]TypeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.typeStatisticsLocked()
}

// Report builds a StorageReport snapshot under a single read lock.
func (s *MemoryStore) Report() StorageReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := StorageReport{
		TotalFiles:    len(s.records),
		TotalSize:     s.totalSizeLocked(),
		LargestFiles:  s.largestLocked(ReportTopN),
		FileTypes:     s.typeStatisticsLocked(),
		RecentlyAdded: cloneAll(head(s.sortedLocked(directed(false, byCreatedAt)), ReportTopN)),
	}
	if report.TotalFiles > 0 {
		report.AverageSize = float64(report.TotalSize) / float64(report.TotalFiles)
	}
	return report
}

// BatchUpdateTags removes the tags in remove and then adds the tags in add
// for each known ID, keeping the tag index in step. Unknown IDs are skipped.
// It returns the number of records updated; each has LastModified advanced.
func (s *MemoryStore) BatchUpdateTags(ids []ID, add, remove []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, id := range ids {
		pos, ok := s.byID[id]
		if !ok {
			log.Debug("Skipping tag update for unknown record", "id", id)
			continue
		}
		r := s.records[pos]

		kept := make([]string, 0, len(r.Tags))
		for _, tag := range r.Tags {
			if slices.Contains(remove, tag) {
				removePosting(s.byTag, tag, pos)
				continue
			}
			kept = append(kept, tag)
		}
		r.Tags = kept

		for _, tag := range add {
			if slices.Contains(r.Tags, tag) {
				continue
			}
			r.Tags = append(r.Tags, tag)
			addPosting(s.byTag, tag, pos)
		}

		r.LastModified = s.advance(r.LastModified)
		updated++
	}

	return updated
}

// advance returns the current time, nudged forward so it is strictly after prev.
func (s *MemoryStore) advance(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *MemoryStore) collectLocked(positions *roaring.Bitmap) []Record {
	if positions == nil {
		return []Record{}
	}

	out := make([]Record, 0, positions.GetCardinality())
	it := positions.Iterator()
	for it.HasNext() {
		pos := it.Next()
		if int(pos) < len(s.records) {
			out = append(out, s.records[pos].clone())
		}
	}
	return out
}

func (s *MemoryStore) filterLocked(keep func(*Record) bool) []Record {
	out := []Record{}
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r.clone())
		}
	}
	return out
}

// sortedLocked returns a stably sorted copy of the record pointers.
func (s *MemoryStore) sortedLocked(compare func(a, b *Record) int) []*Record {
	sorted := slices.Clone(s.records)
	slices.SortStableFunc(sorted, compare)
	return sorted
}

func (s *MemoryStore) largestLocked(count int) []Record {
	if count <= 0 {
		return []Record{}
	}
	return cloneAll(head(s.sortedLocked(directed(false, bySize)), count))
}

func (s *MemoryStore) totalSizeLocked() int64 {
	var total int64
	for _, r := range s.records {
		total += r.Size
	}
	return total
}

func (s *MemoryStore) typeStatisticsLocked() map[string]TypeStats {
	stats := make(map[string]TypeStats, len(s.byType))
	for typ, bm := range s.byType {
		var st TypeStats
		it := bm.Iterator()
		for it.HasNext() {
			st.Count++
			st.TotalSize += s.records[it.Next()].Size
		}
		if st.Count > 0 {
			st.AverageSize = float64(st.TotalSize) / float64(st.Count)
		}
		stats[typ] = st
	}
	return stats
}

func addPosting(index map[string]*roaring.Bitmap, key string, pos uint32) {
	bm, ok := index[key]
	if !ok {
		bm = roaring.New()
		index[key] = bm
	}
	bm.Add(pos)
}

func removePosting(index map[string]*roaring.Bitmap, key string, pos uint32) {
	bm, ok := index[key]
	if !ok {
		return
	}
	bm.Remove(pos)
	if bm.IsEmpty() {
		delete(index, key)
	}
}

func sortedKeys(index map[string]*roaring.Bitmap) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// newCollator returns a collator for name ordering. Collators carry internal
// buffers and must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func byCreatedAt(a, b *Record) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func bySize(a, b *Record) int {
	return cmp.Compare(a.Size, b.Size)
}

// directed flips compare for descending order. Ties still compare equal, so a
// stable sort keeps insertion order either way.
func directed(ascending bool, compare func(a, b *Record) int) func(a, b *Record) int {
	if ascending {
		return compare
	}
	return func(a, b *Record) int {
		return compare(b, a)
	}
}

func head(records []*Record, n int) []*Record {
	if len(records) > n {
		return records[:n]
	}
	return records
}

func cloneAll(records []*Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}
