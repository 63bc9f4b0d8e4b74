package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/store"
	"github.com/nickcecere/fcat/internal/ui"
)

var (
	listType    string
	listTag     string
	listName    string
	listSort    string
	listDesc    bool
	listLargest int
	listJSON    bool

	getName string
	getJSON bool

	containsExists bool

	tagAdd    []string
	tagRemove []string
)

// listCmd lists catalog records.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records",
	Long: `List records, optionally filtered and sorted.

Filters combine: a record must match every filter given.

Examples:
  # All documents, newest first
  fcat list --type document --sort date --desc

  # Records tagged "report" whose name contains "q3"
  fcat list --tag report --name q3

  # The three largest records
  fcat list --largest 3`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// getCmd shows a single record.
var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a record by id or exact name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGet,
}

// containsCmd runs a verbatim content search.
var containsCmd = &cobra.Command{
	Use:   "contains <text>",
	Short: "Find records whose content contains text exactly (case-sensitive)",
	Args:  cobra.ExactArgs(1),
	RunE:  runContains,
}

// tagCmd updates tags on several records.
var tagCmd = &cobra.Command{
	Use:   "tag <id>...",
	Short: "Add and remove tags on records",
	Long: `Add and remove tags on one or more records and print the result.

The catalog lives in memory, so changes last for this invocation only.

Example:
  fcat tag 1 5 8 --add archived --remove report`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "only records of this type")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only records with this tag")
	listCmd.Flags().StringVar(&listName, "name", "", "only records whose name contains this (case-insensitive)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort by name, date or size (default insertion order)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")
	listCmd.Flags().IntVar(&listLargest, "largest", 0, "show only the N largest records")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output records as JSON")

	getCmd.Flags().StringVar(&getName, "name", "", "look up by exact name instead of id")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output the record as JSON")

	containsCmd.Flags().BoolVar(&containsExists, "exists", false, "only report whether any record matches")

	tagCmd.Flags().StringSliceVar(&tagAdd, "add", nil, "tags to add")
	tagCmd.Flags().StringSliceVar(&tagRemove, "remove", nil, "tags to remove")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}
	st := cat.recordStore()

	var records []store.Record
	switch {
	case listLargest > 0:
		records = st.Largest(listLargest)
	case listSort == "name":
		records = st.SortedByName(!listDesc)
	case listSort == "date":
		records = st.SortedByDate(!listDesc)
	case listSort == "size":
		records = st.SortedBySize(!listDesc)
	case listSort == "":
		records = st.All()
	default:
		return fmt.Errorf("unknown sort key %q (want name, date or size)", listSort)
	}

	var filters []map[store.ID]bool
	if listType != "" {
		filters = append(filters, idSet(st.FindByType(listType)))
	}
	if listTag != "" {
		filters = append(filters, idSet(st.FindByTag(listTag)))
	}
	if listName != "" {
		filters = append(filters, idSet(st.FindByName(listName)))
	}
	records = keepAll(records, filters)

	if listJSON {
		return outputJSON(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Dim.Render("No records found."))
		return nil
	}
	ui.RenderRecords(cmd.OutOrStdout(), records)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (getName == "") {
		return fmt.Errorf("give either an id or --name")
	}

	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}

	var (
		rec   store.Record
		found bool
	)
	if getName != "" {
		rec, found = cat.recordStore().FindByExactName(getName)
	} else {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		rec, found = cat.recordStore().Get(store.ID(id))
	}
	if !found {
		return fmt.Errorf("record not found")
	}

	if getJSON {
		return outputJSON(cmd.OutOrStdout(), rec)
	}
	printRecord(cmd, rec)
	return nil
}

func runContains(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if containsExists {
		if cat.recordStore().AnyContains(args[0]) {
			fmt.Fprintln(out, ui.Success.Render("yes"))
		} else {
			fmt.Fprintln(out, ui.Warning.Render("no"))
		}
		return nil
	}

	records := cat.recordStore().SearchText(args[0])
	if len(records) == 0 {
		fmt.Fprintln(out, ui.Dim.Render("No records found."))
		return nil
	}
	ui.RenderRecords(out, records)
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	if len(tagAdd) == 0 && len(tagRemove) == 0 {
		return fmt.Errorf("nothing to do: give --add or --remove")
	}

	ids := make([]store.ID, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", a, err)
		}
		ids = append(ids, store.ID(id))
	}

	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}

	n := cat.searcher.UpdateTags(ids, tagAdd, tagRemove)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated %d of %d records.\n", n, len(ids))

	var updated []store.Record
	for _, id := range ids {
		if rec, ok := cat.recordStore().Get(id); ok {
			updated = append(updated, rec)
		}
	}
	if len(updated) > 0 {
		ui.RenderRecords(out, updated)
	}
	return nil
}

func printRecord(cmd *cobra.Command, rec store.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RecordName.Render(rec.Name)+" "+ui.RecordID.Render(fmt.Sprintf("#%d", rec.ID)))
	fmt.Fprintf(out, "  Type:     %s\n", ui.RecordType.Render(rec.Type))
	fmt.Fprintf(out, "  Size:     %s (%d bytes)\n", ui.FormatSize(rec.Size), rec.Size)
	fmt.Fprintf(out, "  Tags:     %s\n", ui.FormatTags(rec.Tags))
	fmt.Fprintf(out, "  Created:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Modified: %s\n", rec.LastModified.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Hash:     %s\n", rec.ContentHash())
	if rec.Content != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.ResultDetails.Render(strings.TrimSpace(rec.Content)))
	}
}

func idSet(records []store.Record) map[store.ID]bool {
	set := make(map[store.ID]bool, len(records))
	for _, r := range records {
		set[r.ID] = true
	}
	return set
}

// keepAll returns the records present in every filter, preserving order.
func keepAll(records []store.Record, filters []map[store.ID]bool) []store.Record {
	if len(filters) == 0 {
		return records
	}
	kept := records[:0]
	for _, r := range records {
		ok := true
		for _, f := range filters {
			if !f[r.ID] {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}
	return kept
}
