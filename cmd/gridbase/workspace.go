// Workspace and base commands for the gridbase CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var baseCmd = &cobra.Command{
	Use:   "base",
	Short: "Manage bases",
}

func init() {
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	baseCmd.AddCommand(baseCreateCmd)
	baseCmd.AddCommand(baseListCmd)
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("workspace create", err)
		}
		defer backend.Detach()

		ws, err := backend.CreateWorkspace(args[0])
		if err != nil {
			fail("workspace create", err)
		}

		if flagJSON {
			printJSON(ws)
			return nil
		}
		fmt.Printf("Created workspace %q: %s\n", ws.Name, ws.WorkspaceID)
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("workspace list", err)
		}
		defer backend.Detach()

		workspaces, err := backend.ListWorkspaces()
		if err != nil {
			fail("workspace list", err)
		}

		if flagJSON {
			printJSON(workspaces)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, ws := range workspaces {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ws.WorkspaceID, ws.Name, ws.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var baseCreateCmd = &cobra.Command{
	Use:   "create <workspace-id> <name>",
	Short: "Create a base in a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("base create", err)
		}
		defer backend.Detach()

		base, err := backend.CreateBase(args[0], args[1])
		if err != nil {
			fail("base create", err)
		}

		if flagJSON {
			printJSON(base)
			return nil
		}
		fmt.Printf("Created base %q: %s\n", base.Name, base.BaseID)
		return nil
	},
}

var baseListCmd = &cobra.Command{
	Use:   "list <workspace-id>",
	Short: "List the bases of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("base list", err)
		}
		defer backend.Detach()

		bases, err := backend.ListBases(args[0])
		if err != nil {
			fail("base list", err)
		}

		if flagJSON {
			printJSON(bases)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, b := range bases {
			fmt.Fprintf(w, "%s\t%s\t%s\n", b.BaseID, b.Name, b.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}
