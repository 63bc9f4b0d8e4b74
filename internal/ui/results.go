package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nickcecere/fcat/internal/search"
)

// ResultRow is the display form of a search result.
type ResultRow struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Similarity   string `json:"similarity"`
	MatchDetails string `json:"matchDetails"`
	Relevance    string `json:"relevance"`
}

// MatchLabel describes where and how a result matched, for example
// "content (fuzzy)". A missing field reads "unknown".
func MatchLabel(r search.Result) string {
	field := string(r.Field)
	if field == "" {
		field = "unknown"
	}
	match := string(r.Match)
	if match == "" {
		match = string(search.MatchFuzzy)
	}
	return fmt.Sprintf("%s (%s)", field, match)
}

// FormatResults converts results to display rows in order.
func FormatResults(results []search.Result) []ResultRow {
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{
			ID:           int64(r.Record.ID),
			Name:         r.Record.Name,
			Type:         r.Record.Type,
			Similarity:   FormatScore(r.Score),
			MatchDetails: MatchLabel(r),
			Relevance:    search.DescribeRelevance(r.Score),
		}
	}
	return rows
}

// RenderResults writes styled rows to w.
func RenderResults(w io.Writer, rows []ResultRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, Dim.Render("No matches found."))
		return
	}

	for i, row := range rows {
		fmt.Fprintf(w, "%s %s %s %s\n",
			Bold.Render(strconv.Itoa(i+1)+"."),
			RecordName.Render(row.Name),
			RecordID.Render(fmt.Sprintf("#%d", row.ID)),
			RecordType.Render(row.Type),
		)
		fmt.Fprintln(w, ResultDetails.Render(fmt.Sprintf("%s  %s  %s",
			ResultScore.Render(row.Similarity),
			row.MatchDetails,
			RenderRelevance(row.Relevance),
		)))
	}
}
