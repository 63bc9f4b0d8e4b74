package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
)

// TestFormatResults tests conversion to display rows.
func TestFormatResults(t *testing.T) {
	results := []search.Result{
		{
			Record: store.Record{ID: 1, Name: "Q1 Financial Report.docx", Type: "document"},
			Score:  0.894736,
			Field:  search.FieldContent,
			Match:  search.MatchFuzzy,
		},
		{
			Record: store.Record{ID: 12, Name: "ExpenseReport_March.xlsx", Type: "spreadsheet"},
			Score:  1,
			Field:  search.FieldTag,
			Match:  search.MatchExact,
		},
		{
			Record: store.Record{ID: 5, Name: "Q2 Financial Rport.docx", Type: "document"},
			Score:  0.6087,
		},
	}

	rows := FormatResults(results)
	require.Len(t, rows, 3)

	assert.Equal(t, ResultRow{
		ID:           1,
		Name:         "Q1 Financial Report.docx",
		Type:         "document",
		Similarity:   "0.89",
		MatchDetails: "content (fuzzy)",
		Relevance:    "Good match",
	}, rows[0])

	assert.Equal(t, "1.00", rows[1].Similarity)
	assert.Equal(t, "tag (exact)", rows[1].MatchDetails)
	assert.Equal(t, "Excellent match", rows[1].Relevance)

	assert.Equal(t, "unknown (fuzzy)", rows[2].MatchDetails)
	assert.Equal(t, "Possible match", rows[2].Relevance)
}

// TestFormatScore tests two decimal rounding.
func TestFormatScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{2.0 / 3.0, "0.67"},
		{0.6087, "0.61"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatScore(tt.score))
		})
	}
}

// TestFormatSize tests human readable sizes.
func TestFormatSize(t *testing.T) {
	assert.Equal(t, "250 B", FormatSize(250))
	assert.Equal(t, "1.2 kB", FormatSize(1200))
	assert.Equal(t, "-1 B", FormatSize(-1))
}

// TestRenderResults tests that rendering includes every row.
func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, nil)
	assert.Contains(t, buf.String(), "No matches found.")

	buf.Reset()
	RenderResults(&buf, []ResultRow{
		{ID: 3, Name: "Customer Data 2023.csv", Type: "spreadsheet", Similarity: "1.00", MatchDetails: "content (exact)", Relevance: "Excellent match"},
	})
	out := buf.String()
	assert.Contains(t, out, "Customer Data 2023.csv")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "content (exact)")
	assert.Contains(t, out, "Excellent match")
}

// TestHorizontalRule tests divider width.
func TestHorizontalRule(t *testing.T) {
	assert.Contains(t, HorizontalRule(3), "───")
}
