// Package wordindex maps normalized words to the set of catalog positions whose
// name contains them.
package wordindex

import (
	"sort"
	"strings"
	"unicode"

	"github.com/RoaringBitmap/roaring/v2"
)

// MinWordLength is the shortest token kept by ExtractWords.
const MinWordLength = 2

// ExtractWords lowercases text, drops every rune that is neither a letter, a
// digit nor whitespace, splits on whitespace runs and discards tokens shorter
// than MinWordLength. Order and duplicates are preserved.
func ExtractWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	fields := strings.Fields(cleaned)
	words := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= MinWordLength {
			words = append(words, f)
		}
	}
	return words
}

// Index is an inverted index from word to a bitmap of positions.
//
// Index is not safe for concurrent use; the owner serializes access.
type Index struct {
	words map[string]*roaring.Bitmap
}

// New creates an empty index.
func New() *Index {
	return &Index{words: make(map[string]*roaring.Bitmap)}
}

// Add registers pos under every distinct word of text. Adding the same
// position and text again is a no-op.
func (ix *Index) Add(pos uint32, text string) {
	for _, word := range ExtractWords(text) {
		bm, ok := ix.words[word]
		if !ok {
			bm = roaring.New()
			ix.words[word] = bm
		}
		bm.Add(pos)
	}
}

// Lookup returns the bucket for an exact word. The bitmap is owned by the
// index and must not be modified.
func (ix *Index) Lookup(word string) (*roaring.Bitmap, bool) {
	bm, ok := ix.words[word]
	return bm, ok
}

// Each calls fn for every indexed word and its bucket until fn returns false.
// Iteration order is unspecified.
func (ix *Index) Each(fn func(word string, positions *roaring.Bitmap) bool) {
	for word, bm := range ix.words {
		if !fn(word, bm) {
			return
		}
	}
}

// Words returns all indexed words in sorted order.
func (ix *Index) Words() []string {
	words := make([]string, 0, len(ix.words))
	for w := range ix.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Len returns the number of distinct indexed words.
func (ix *Index) Len() int {
	return len(ix.words)
}
