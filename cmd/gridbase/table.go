// Table commands for the gridbase CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage tables",
}

func init() {
	tableCmd.AddCommand(tableCreateCmd)
	tableCmd.AddCommand(tableListCmd)
	tableCmd.AddCommand(tableShowCmd)
}

var tableCreateCmd = &cobra.Command{
	Use:   "create <base-id> <name>",
	Short: "Create a table with default columns, blank rows, and a grid view",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("table create", err)
		}
		defer backend.Detach()

		table, err := backend.CreateTable(args[0], args[1])
		if err != nil {
			fail("table create", err)
		}

		if flagJSON {
			printJSON(table)
			return nil
		}
		fmt.Printf("Created table %q: %s\n", table.Name, table.TableID)
		return nil
	},
}

var tableListCmd = &cobra.Command{
	Use:   "list <base-id>",
	Short: "List the tables of a base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("table list", err)
		}
		defer backend.Detach()

		tables, err := backend.ListTables(args[0])
		if err != nil {
			fail("table list", err)
		}

		if flagJSON {
			printJSON(tables)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tROWS\tCREATED")
		for _, t := range tables {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.TableID, t.Name, t.RowCount, t.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var tableShowCmd = &cobra.Command{
	Use:   "show <table-id>",
	Short: "Show a table's columns and row count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("table show", err)
		}
		defer backend.Detach()

		meta, err := backend.GetTableMeta(args[0])
		if err != nil {
			fail("table show", err)
		}

		if flagJSON {
			printJSON(meta)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tORDER")
		for _, c := range meta.Columns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ColumnID, c.Name, c.Type, c.Order)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d rows\n", meta.RowCount)
		return nil
	},
}
