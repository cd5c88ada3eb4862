// Version command for the gridbase CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridbase/pkg/gridbase"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gridbase version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gridbase", gridbase.Version)
	},
}
