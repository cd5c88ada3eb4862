// Row commands for the gridbase CLI: bulk insertion and paged queries.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

var rowCmd = &cobra.Command{
	Use:   "row",
	Short: "Add and query rows",
}

var (
	rowListView   string
	rowListLimit  int
	rowListCursor string
	rowListSearch string
	rowListAll    bool
)

func init() {
	rowCmd.AddCommand(rowAddCmd)
	rowCmd.AddCommand(rowListCmd)

	rowListCmd.Flags().StringVar(&rowListView, "view", "", "view ID supplying filters, sort, and search")
	rowListCmd.Flags().IntVar(&rowListLimit, "limit", 0, "page size (default 50, clamped to 10..500)")
	rowListCmd.Flags().StringVar(&rowListCursor, "cursor", "", "resume cursor from a previous page")
	rowListCmd.Flags().StringVar(&rowListSearch, "q", "", "search text overriding the view's search")
	rowListCmd.Flags().BoolVar(&rowListAll, "all", false, "follow cursors until the result set is exhausted")
}

var rowAddCmd = &cobra.Command{
	Use:   "add <table-id> <count>",
	Short: "Append blank rows to a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			fail("row add", types.ErrInvalidCount)
		}

		backend, err := attachBackend()
		if err != nil {
			fail("row add", err)
		}
		defer backend.Detach()

		total, err := backend.AddRows(args[0], count)
		if err != nil {
			fail("row add", err)
		}
		fmt.Printf("Added %d rows; table now has %d\n", count, total)
		return nil
	},
}

var rowListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List rows one page at a time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableID := args[0]

		backend, err := attachBackend()
		if err != nil {
			fail("row list", err)
		}
		defer backend.Detach()

		meta, err := backend.GetTableMeta(tableID)
		if err != nil {
			fail("row list", err)
		}

		req := types.QueryRequest{
			ViewID: rowListView,
			Limit:  rowListLimit,
			Cursor: rowListCursor,
		}
		if cmd.Flags().Changed("q") {
			req.SearchOverride = &rowListSearch
		}

		for {
			page, err := backend.QueryRows(tableID, req)
			if err != nil {
				fail("row list", err)
			}

			if flagJSON {
				printJSON(page)
			} else if err := printRowTable(meta.Columns, page.Rows); err != nil {
				return err
			}

			if !rowListAll || page.NextCursor == nil {
				if !flagJSON && page.NextCursor != nil {
					fmt.Printf("\nnext cursor: %s\n", *page.NextCursor)
				}
				return nil
			}
			req.Cursor = *page.NextCursor
		}
	},
}

// printRowTable renders one page of rows with one column per table column.
func printRowTable(columns []types.Column, rows []*types.Row) error {
	w := newTabWriter()
	fmt.Fprint(w, "INDEX")
	for _, c := range columns {
		fmt.Fprintf(w, "\t%s", c.Name)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		fmt.Fprintf(w, "%d", row.RowIndex)
		for _, c := range columns {
			fmt.Fprintf(w, "\t%s", formatCell(row.Cells[c.ColumnID]))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// formatCell renders a cell value; empty cells render blank.
func formatCell(v types.CellValue) string {
	switch {
	case v.Text != nil:
		return *v.Text
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'g', -1, 64)
	default:
		return ""
	}
}
