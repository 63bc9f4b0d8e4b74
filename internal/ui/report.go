package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nickcecere/fcat/internal/store"
)

// ReportMarkdown renders a storage report as markdown.
func ReportMarkdown(rep store.StorageReport) string {
	var sb strings.Builder

	sb.WriteString("# Storage Report\n\n")
	fmt.Fprintf(&sb, "- **Total files:** %d\n", rep.TotalFiles)
	fmt.Fprintf(&sb, "- **Total size:** %s (%d bytes)\n", FormatSize(rep.TotalSize), rep.TotalSize)
	fmt.Fprintf(&sb, "- **Average size:** %.2f bytes\n", rep.AverageSize)

	sb.WriteString("\n## Largest Files\n\n")
	writeRecordTable(&sb, rep.LargestFiles)

	sb.WriteString("\n## File Types\n\n")
	if len(rep.FileTypes) == 0 {
		sb.WriteString("_No records._\n")
	} else {
		sb.WriteString("| Type | Count | Total Size | Average Size |\n")
		sb.WriteString("|------|------:|-----------:|-------------:|\n")
		for _, typ := range sortedTypes(rep.FileTypes) {
			st := rep.FileTypes[typ]
			fmt.Fprintf(&sb, "| %s | %d | %s | %.2f |\n", typ, st.Count, FormatSize(st.TotalSize), st.AverageSize)
		}
	}

	sb.WriteString("\n## Recently Added\n\n")
	writeRecordTable(&sb, rep.RecentlyAdded)

	return sb.String()
}

func writeRecordTable(sb *strings.Builder, records []store.Record) {
	if len(records) == 0 {
		sb.WriteString("_No records._\n")
		return
	}
	sb.WriteString("| ID | Name | Type | Size | Created |\n")
	sb.WriteString("|---:|------|------|-----:|---------|\n")
	for _, r := range records {
		fmt.Fprintf(sb, "| %d | %s | %s | %s | %s |\n",
			r.ID, escapeCell(r.Name), r.Type, FormatSize(r.Size), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func sortedTypes(stats map[string]store.TypeStats) []string {
	types := make([]string, 0, len(stats))
	for typ := range stats {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// RenderMarkdown renders markdown content using glamour.
func RenderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

// RenderTypeStats writes per-type statistics as a table.
func RenderTypeStats(w io.Writer, stats map[string]store.TypeStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Count", "Total Size", "Average Size"})

	var count int
	var total int64
	for _, typ := range sortedTypes(stats) {
		st := stats[typ]
		count += st.Count
		total += st.TotalSize
		t.AppendRow(table.Row{typ, st.Count, FormatSize(st.TotalSize), fmt.Sprintf("%.2f B", st.AverageSize)})
	}
	t.AppendFooter(table.Row{"Total", count, FormatSize(total), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// RenderRecords writes records as a table.
func RenderRecords(w io.Writer, records []store.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Size", "Tags", "Modified"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Name, r.Type, FormatSize(r.Size), strings.Join(r.Tags, ", "), r.LastModified.Format("2006-01-02 15:04")})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}
