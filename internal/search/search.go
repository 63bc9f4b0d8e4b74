package search

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/charmbracelet/log"

	"github.com/nickcecere/fcat/internal/similarity"
	"github.com/nickcecere/fcat/internal/store"
	"github.com/nickcecere/fcat/internal/wordindex"
)

// Operation names reported to an Observer.
const (
	OpName        = "name"
	OpNameIndexed = "name_indexed"
	OpContent     = "content"
	OpCombined    = "combined"
)

// Observer receives timing for every completed search.
type Observer interface {
	ObserveSearch(op string, elapsed time.Duration, results int)
}

// Searcher provides fuzzy search over a store. It owns a word index of record
// names that it keeps in step with inserts made through Add.
//
// The searcher lock is always taken before the store lock.
type Searcher struct {
	mu sync.RWMutex

	store store.Store
	words *wordindex.Index

	guaranteedRecall bool
	observer         Observer
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithGuaranteedRecall makes SearchNameIndexed score every record instead of
// pruning candidates through the word index.
func WithGuaranteedRecall(enabled bool) Option {
	return func(s *Searcher) {
		s.guaranteedRecall = enabled
	}
}

// WithObserver reports search timings to o.
func WithObserver(o Observer) Option {
	return func(s *Searcher) {
		s.observer = o
	}
}

// New creates a Searcher over st, indexing any records already present.
func New(st store.Store, opts ...Option) *Searcher {
	s := &Searcher{
		store: st,
		words: wordindex.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for pos, r := range st.All() {
		s.words.Add(uint32(pos), r.Name)
	}
	return s
}

// Store returns a read-only view of the underlying record store. Records must
// be added through Add so the word index stays in step.
func (s *Searcher) Store() store.Reader {
	return store.ReadOnly(s.store)
}

// WordCount returns the number of distinct indexed name words.
func (s *Searcher) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.words.Len()
}

// Add inserts rec into the store and indexes its name.
func (s *Searcher) Add(rec store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Insert(rec)
	if err != nil {
		return store.Record{}, err
	}

	pos, ok := s.store.Position(stored.ID)
	if ok {
		s.words.Add(pos, stored.Name)
	}
	return stored, nil
}

// UpdateTags applies a batch tag update while holding the searcher lock.
func (s *Searcher) UpdateTags(ids []store.ID, add, remove []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.BatchUpdateTags(ids, add, remove)
}

// SearchName scores the name of every record against term.
func (s *Searcher) SearchName(term string, threshold float64) ([]Result, error) {
	if err := validateThreshold("threshold", threshold); err != nil {
		return nil, err
	}
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := scoreNames(term, s.store.All(), threshold)
	s.finish(OpName, term, start, len(results))
	return results, nil
}

// SearchNameIndexed narrows the records to those whose name shares a word
// with term, or a word at least threshold similar to one, then scores the
// full names of those candidates only.
//
// A record whose full name would pass threshold but which shares no similar
// enough word with term is not returned unless guaranteed recall is enabled.
func (s *Searcher) SearchNameIndexed(term string, threshold float64) ([]Result, error) {
	if err := validateThreshold("threshold", threshold); err != nil {
		return nil, err
	}
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.searchNameIndexedLocked(term, threshold)
	s.finish(OpNameIndexed, term, start, len(results))
	return results, nil
}

// SearchContent looks for term inside record content. A verbatim
// case-insensitive hit scores 1 and is exact; otherwise the best word (or
// word window, for multi-word terms) similarity is used.
func (s *Searcher) SearchContent(term string, threshold float64) ([]Result, error) {
	if err := validateThreshold("threshold", threshold); err != nil {
		return nil, err
	}
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.searchContentLocked(term, threshold)
	s.finish(OpContent, term, start, len(results))
	return results, nil
}

// Search runs the enabled name, content and tag searches, keeps the best
// result per record and returns at most opts.MaxResults results.
func (s *Searcher) Search(term string, opts Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	limit := opts.MaxResults
	if limit == 0 {
		limit = DefaultMaxResults
	}
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Result

	if opts.IncludeNames {
		for _, r := range s.searchNameIndexedLocked(term, opts.NameThreshold) {
			r.Field = FieldName
			all = append(all, r)
		}
	}

	if opts.IncludeContent {
		for _, r := range s.searchContentLocked(term, opts.ContentThreshold) {
			r.Field = FieldContent
			all = append(all, r)
		}
	}

	if opts.IncludeTags {
		all = append(all, s.searchTagsLocked(term, opts.NameThreshold, all)...)
	}

	merged := mergeByRecord(all)
	sortByScore(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	s.finish(OpCombined, term, start, len(merged))
	return merged, nil
}

func (s *Searcher) searchNameIndexedLocked(term string, threshold float64) []Result {
	if s.guaranteedRecall {
		return scoreNames(term, s.store.All(), threshold)
	}

	searchWords := wordindex.ExtractWords(term)
	if len(searchWords) == 0 {
		return scoreNames(term, s.store.All(), threshold)
	}

	candidates := roaring.New()
	for _, word := range searchWords {
		if bucket, ok := s.words.Lookup(word); ok {
			candidates.Or(bucket)
			continue
		}
		s.words.Each(func(indexed string, bucket *roaring.Bitmap) bool {
			if similarity.Similarity(word, indexed) >= threshold {
				candidates.Or(bucket)
			}
			return true
		})
	}

	log.Debug("Name candidates selected", "words", len(searchWords), "candidates", candidates.GetCardinality())
	return scoreNames(term, s.store.Collect(candidates), threshold)
}

func (s *Searcher) searchContentLocked(term string, threshold float64) []Result {
	lowerTerm := strings.ToLower(term)
	termWords := wordindex.ExtractWords(lowerTerm)
	joinedTerm := strings.Join(termWords, " ")

	var results []Result
	for _, rec := range s.store.All() {
		content := strings.ToLower(rec.Content)
		if strings.Contains(content, lowerTerm) {
			results = append(results, Result{Record: rec, Score: 1.0, Match: MatchExact})
			continue
		}

		contentWords := wordindex.ExtractWords(content)
		if len(termWords) == 0 || len(contentWords) == 0 {
			continue
		}

		best := 0.0
		if len(termWords) == 1 {
			for _, w := range contentWords {
				best = max(best, similarity.Similarity(w, termWords[0]))
			}
		} else {
			for i := 0; i+len(termWords) <= len(contentWords); i++ {
				window := strings.Join(contentWords[i:i+len(termWords)], " ")
				best = max(best, similarity.Similarity(window, joinedTerm))
			}
		}

		if best >= threshold {
			results = append(results, Result{Record: rec, Score: best, Match: MatchFuzzy})
		}
	}

	sortByScore(results)
	return results
}

// searchTagsLocked adds at most one tag match per record not already in prior.
func (s *Searcher) searchTagsLocked(term string, threshold float64, prior []Result) []Result {
	lowerTerm := strings.ToLower(term)
	seen := make(map[store.ID]struct{}, len(prior))
	for _, r := range prior {
		seen[r.Record.ID] = struct{}{}
	}

	var results []Result
	for _, rec := range s.store.All() {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		for _, tag := range rec.Tags {
			score := similarity.Similarity(strings.ToLower(tag), lowerTerm)
			if score < threshold {
				continue
			}
			match := MatchFuzzy
			if score == 1.0 {
				match = MatchExact
			}
			results = append(results, Result{Record: rec, Score: score, Field: FieldTag, Match: match})
			break
		}
	}
	return results
}

func (s *Searcher) finish(op, term string, start time.Time, results int) {
	elapsed := time.Since(start)
	log.Debug("Search complete", "op", op, "term", truncate(term, 50), "results", results, "elapsed", elapsed)
	if s.observer != nil {
		s.observer.ObserveSearch(op, elapsed, results)
	}
}

// scoreNames compares the lowercased name of each record with term.
func scoreNames(term string, records []store.Record, threshold float64) []Result {
	lowerTerm := strings.ToLower(term)

	var results []Result
	for _, rec := range records {
		score := similarity.Similarity(strings.ToLower(rec.Name), lowerTerm)
		if score < threshold {
			continue
		}
		match := MatchFuzzy
		if score == 1.0 {
			match = MatchExact
		}
		results = append(results, Result{Record: rec, Score: score, Match: match})
	}

	sortByScore(results)
	return results
}

// mergeByRecord keeps the first result per record, replacing it only when a
// later result scores strictly higher.
func mergeByRecord(results []Result) []Result {
	merged := make([]Result, 0, len(results))
	index := make(map[store.ID]int, len(results))

	for _, r := range results {
		i, ok := index[r.Record.ID]
		if !ok {
			index[r.Record.ID] = len(merged)
			merged = append(merged, r)
			continue
		}
		if r.Score > merged[i].Score {
			merged[i] = r
		}
	}
	return merged
}

// sortByScore sorts results by descending score, keeping the existing order
// among equal scores.
func sortByScore(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
}

// truncate shortens a string for display, cutting on rune boundaries.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
