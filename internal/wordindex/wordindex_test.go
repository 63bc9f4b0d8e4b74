package wordindex

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractWords tests normalization and tokenization.
func TestExtractWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "Q1 Financial Report.docx", []string{"q1", "financial", "reportdocx"}},
		{"hyphens joined", "Q3-Finance-Report.docx", []string{"q3financereportdocx"}},
		{"lone punctuation dropped", "Customer Data - Backup.csv", []string{"customer", "data", "backupcsv"}},
		{"underscore stripped", "UserData_2023.csv", []string{"userdata2023csv"}},
		{"short tokens dropped", "a b cd e", []string{"cd"}},
		{"whitespace runs", "  many\t\tspaces \n here ", []string{"many", "spaces", "here"}},
		{"duplicates kept", "data data", []string{"data", "data"}},
		{"empty", "", []string{}},
		{"only punctuation", "!!! ...", []string{}},
		{"unicode letters", "Résumé Ünïcode", []string{"résumé", "ünïcode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractWords(tt.input))
		})
	}
}

// TestExtractWordsDeterministic tests repeated calls agree.
func TestExtractWordsDeterministic(t *testing.T) {
	in := "Annual Presentation.pptx"
	assert.Equal(t, ExtractWords(in), ExtractWords(in))
}

func TestIndexAddAndLookup(t *testing.T) {
	ix := New()
	ix.Add(0, "Q1 Financial Report.docx")
	ix.Add(1, "Q2 Financial Rport.docx")
	ix.Add(2, "Company Logo.png")

	bm, ok := ix.Lookup("financial")
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 1}, bm.ToArray())

	bm, ok = ix.Lookup("company")
	require.True(t, ok)
	assert.Equal(t, []uint32{2}, bm.ToArray())

	_, ok = ix.Lookup("report")
	assert.False(t, ok)
}

func TestIndexAddIdempotent(t *testing.T) {
	ix := New()
	ix.Add(7, "data data backup")
	ix.Add(7, "data data backup")

	bm, ok := ix.Lookup("data")
	require.True(t, ok)
	assert.Equal(t, uint64(1), bm.GetCardinality())
	assert.Equal(t, 2, ix.Len())
}

func TestIndexWordsSorted(t *testing.T) {
	ix := New()
	ix.Add(0, "zeta alpha")
	ix.Add(1, "mid")

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ix.Words())
}

func TestIndexEach(t *testing.T) {
	ix := New()
	ix.Add(0, "one two three")

	seen := map[string]uint64{}
	ix.Each(func(word string, positions *roaring.Bitmap) bool {
		seen[word] = positions.GetCardinality()
		return true
	})
	assert.Equal(t, map[string]uint64{"one": 1, "two": 1, "three": 1}, seen)

	calls := 0
	ix.Each(func(string, *roaring.Bitmap) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}
