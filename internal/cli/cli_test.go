package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/fcat/internal/store"
	"github.com/nickcecere/fcat/internal/ui"
)

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func decodeRows(t *testing.T, out string) []ui.ResultRow {
	t.Helper()

	var rows []ui.ResultRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func rowIDs(rows []ui.ResultRow) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestSearchCommand tests the search command over the sample catalog.
func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "search", "financial report", "--mode", "indexed", "--json")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	assert.Equal(t, []int64{1, 5}, rowIDs(rows))
	assert.Equal(t, "0.67", rows[0].Similarity)
	assert.Equal(t, "name (fuzzy)", rows[0].MatchDetails)
}

// TestSearchCommandFlags tests toggles and limits in combined mode.
func TestSearchCommandFlags(t *testing.T) {
	out, err := execute(t, "search", "report", "--no-tags", "-m", "2", "--json")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, rowIDs(decodeRows(t, out)))

	out, err = execute(t, "search", "report", "--json")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.NotEmpty(t, rows)
	assert.Equal(t, int64(12), rows[0].ID)
	assert.Equal(t, "tag (exact)", rows[0].MatchDetails)
}

// TestSearchCommandInvalid tests argument validation.
func TestSearchCommandInvalid(t *testing.T) {
	_, err := execute(t, "search", "x", "--mode", "semantic")
	assert.Error(t, err)

	_, err = execute(t, "search", "x", "--threshold", "1.5")
	assert.Error(t, err)
}

// TestRootShortcut tests searching without the search subcommand.
func TestRootShortcut(t *testing.T) {
	out, err := execute(t, "Q1", "--json")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, rowIDs(decodeRows(t, out)))
}

// TestGetCommand tests lookups by id and exact name.
func TestGetCommand(t *testing.T) {
	out, err := execute(t, "get", "14", "--json")
	require.NoError(t, err)
	var rec store.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Product Roadmap.docx", rec.Name)

	out, err = execute(t, "get", "--name", "HR Policy Manual.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "#15")

	_, err = execute(t, "get", "99")
	assert.Error(t, err)

	_, err = execute(t, "get")
	assert.Error(t, err)
}

// TestListCommand tests filtering and sorting.
func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--type", "document", "--sort", "size", "--desc", "--json")
	require.NoError(t, err)

	var records []store.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	ids := make([]store.ID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []store.ID{15, 14, 8, 10, 5, 1}, ids)

	out, err = execute(t, "list", "--tag", "report", "--name", "q3", "--json")
	require.NoError(t, err)
	records = nil
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, store.ID(8), records[0].ID)

	_, err = execute(t, "list", "--sort", "colour")
	assert.Error(t, err)
}

// TestContainsCommand tests verbatim content search.
func TestContainsCommand(t *testing.T) {
	out, err := execute(t, "contains", "Customer,Email")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer Data 2023.csv")
	assert.Contains(t, out, "Customer Data - Backup.csv")

	out, err = execute(t, "contains", "customer,email", "--exists")
	require.NoError(t, err)
	assert.Contains(t, out, "no")
}

// TestTagCommand tests batch tag updates.
func TestTagCommand(t *testing.T) {
	out, err := execute(t, "tag", "9", "404", "--add", "stylesheet", "--remove", "css")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 1 of 2 records.")
	assert.Contains(t, out, "stylesheet")

	_, err = execute(t, "tag", "9")
	assert.Error(t, err)
}

// TestReportCommands tests stats, report and duplicates output.
func TestReportCommands(t *testing.T) {
	out, err := execute(t, "report", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Storage Report")
	assert.Contains(t, out, "**Total files:** 15")

	out, err = execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in sample")
	assert.Contains(t, out, "spreadsheet")

	out, err = execute(t, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "No duplicate content found.")
}

// TestCatalogFlag tests loading a manifest instead of the sample.
func TestCatalogFlag(t *testing.T) {
	path := writeManifest(t, `records:
  - id: 1
    name: notes.txt
    content: same text
  - id: 2
    name: notes-copy.txt
    content: same text
`)

	out, err := execute(t, "duplicates", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 duplicate(s)")
	assert.Contains(t, out, "notes-copy.txt")

	_, err = execute(t, "stats", "--catalog", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestIndexCommand tests manifest loading and dry runs.
func TestIndexCommand(t *testing.T) {
	path := writeManifest(t, `records:
  - id: 1
    name: Budget.xlsx
  - id: 2
    name: drafts/plan.docx
`)

	out, err := execute(t, "index", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexing complete")
	assert.Contains(t, out, "Records:       2")

	out, err = execute(t, "index", path, "--dry-run", "--ignore", "drafts/")
	require.NoError(t, err)
	assert.Contains(t, out, "Ignored:      1")
	assert.Contains(t, out, "Budget.xlsx")
}

// TestVersionCommand tests version output.
func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fcat dev")
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
