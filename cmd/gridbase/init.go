// Init command for the gridbase CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the gridbase storage",
	Long:  `Initialize the gridbase storage backend: creates the data directory and the database schema.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("init", err)
		}
		defer backend.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			fail("init", err)
		}
		fmt.Println("Initialized gridbase storage in", dataDir)
		return nil
	},
}
