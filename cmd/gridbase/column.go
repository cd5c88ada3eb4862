// Column commands for the gridbase CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

var columnCmd = &cobra.Command{
	Use:   "column",
	Short: "Manage table columns",
}

func init() {
	columnCmd.AddCommand(columnAddCmd)
	columnCmd.AddCommand(columnListCmd)
	columnCmd.AddCommand(columnRenameCmd)
	columnCmd.AddCommand(columnDeleteCmd)
	columnCmd.AddCommand(columnReorderCmd)
	columnCmd.AddCommand(columnMoveCmd)
}

var columnAddCmd = &cobra.Command{
	Use:   "add <table-id> <name> <type>",
	Short: "Add a column (type: TEXT or NUMBER)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		colType := types.ColumnType(strings.ToUpper(args[2]))

		backend, err := attachBackend()
		if err != nil {
			fail("column add", err)
		}
		defer backend.Detach()

		col, err := backend.AddColumn(args[0], args[1], colType)
		if err != nil {
			fail("column add", err)
		}

		if flagJSON {
			printJSON(col)
			return nil
		}
		fmt.Printf("Added column %q (%s): %s\n", col.Name, col.Type, col.ColumnID)
		return nil
	},
}

var columnListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List the columns of a table in display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("column list", err)
		}
		defer backend.Detach()

		meta, err := backend.GetTableMeta(args[0])
		if err != nil {
			fail("column list", err)
		}

		if flagJSON {
			printJSON(meta.Columns)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tORDER")
		for _, c := range meta.Columns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ColumnID, c.Name, c.Type, c.Order)
		}
		return w.Flush()
	},
}

var columnRenameCmd = &cobra.Command{
	Use:   "rename <column-id> <name>",
	Short: "Rename a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("column rename", err)
		}
		defer backend.Detach()

		if err := backend.RenameColumn(args[0], args[1]); err != nil {
			fail("column rename", err)
		}
		fmt.Println("Renamed column", args[0])
		return nil
	},
}

var columnDeleteCmd = &cobra.Command{
	Use:   "delete <column-id>",
	Short: "Delete a column and its cells",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("column delete", err)
		}
		defer backend.Detach()

		if err := backend.DeleteColumn(args[0]); err != nil {
			fail("column delete", err)
		}
		fmt.Println("Deleted column", args[0])
		return nil
	},
}

var columnReorderCmd = &cobra.Command{
	Use:   "reorder <table-id> <column-id>...",
	Short: "Reorder columns; the id list must include every column exactly once",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("column reorder", err)
		}
		defer backend.Detach()

		if err := backend.ReorderColumns(args[0], args[1:]); err != nil {
			fail("column reorder", err)
		}
		fmt.Println("Reordered columns of table", args[0])
		return nil
	},
}

var columnMoveCmd = &cobra.Command{
	Use:   "move <column-id> <left|right>",
	Short: "Swap a column with its neighbor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir types.MoveDirection
		switch strings.ToLower(args[1]) {
		case "left":
			dir = types.MoveLeft
		case "right":
			dir = types.MoveRight
		default:
			fail("column move", types.ErrInvalidDirection)
		}

		backend, err := attachBackend()
		if err != nil {
			fail("column move", err)
		}
		defer backend.Detach()

		if err := backend.MoveColumn(args[0], dir); err != nil {
			fail("column move", err)
		}
		fmt.Printf("Moved column %s %s\n", args[0], dir)
		return nil
	},
}
