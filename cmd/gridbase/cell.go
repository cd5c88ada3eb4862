// Cell command for the gridbase CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cellCmd = &cobra.Command{
	Use:   "cell",
	Short: "Write cell values",
}

func init() {
	cellCmd.AddCommand(cellSetCmd)
}

var cellSetCmd = &cobra.Command{
	Use:   "set <row-id> <column-id> <value>",
	Short: "Set a cell value; an empty value clears the cell",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("cell set", err)
		}
		defer backend.Detach()

		if err := backend.SetCellValue(args[0], args[1], args[2]); err != nil {
			fail("cell set", err)
		}
		fmt.Println("Cell updated")
		return nil
	},
}
