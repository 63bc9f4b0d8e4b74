package store

import "github.com/RoaringBitmap/roaring/v2"

// Reader is the read-only part of Store.
//
// Every record occupies a dense position assigned at insertion time; positions
// start at zero and follow insertion order. Methods returning several records
// return copies in insertion order unless stated otherwise.
type Reader interface {
	// Lookup
	Get(id ID) (Record, bool)
	Position(id ID) (uint32, bool)
	Collect(positions *roaring.Bitmap) []Record
	All() []Record
	Len() int

	// Filtering
	FindByName(query string) []Record
	FindByExactName(name string) (Record, bool)
	FindByType(typ string) []Record
	FindByTag(tag string) []Record
	SearchText(term string) []Record
	AnyContains(term string) bool
	Types() []string
	Tags() []string

	// Ordering
	SortedByName(ascending bool) []Record
	SortedByDate(ascending bool) []Record
	SortedBySize(ascending bool) []Record
	Largest(count int) []Record

	// Aggregates
	TotalSize() int64
	Duplicates() []DuplicatePair
	TypeStatistics() map[string]TypeStats
	Report() StorageReport
}

// Store defines the record catalog operations.
type Store interface {
	Reader

	Insert(rec Record) (Record, error)
	BatchUpdateTags(ids []ID, add, remove []string) int
}

type readOnly struct {
	Reader
}

// ReadOnly wraps r so callers cannot type-assert their way back to a Store.
func ReadOnly(r Reader) Reader {
	return readOnly{r}
}
