// View commands for the gridbase CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage views",
}

func init() {
	viewCmd.AddCommand(viewCreateCmd)
	viewCmd.AddCommand(viewListCmd)
	viewCmd.AddCommand(viewShowCmd)
	viewCmd.AddCommand(viewRenameCmd)
	viewCmd.AddCommand(viewDeleteCmd)
	viewCmd.AddCommand(viewConfigCmd)
}

var viewCreateCmd = &cobra.Command{
	Use:   "create <table-id> <name>",
	Short: "Create a grid view with an empty configuration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("view create", err)
		}
		defer backend.Detach()

		view, err := backend.CreateView(args[0], args[1])
		if err != nil {
			fail("view create", err)
		}

		if flagJSON {
			printJSON(view)
			return nil
		}
		fmt.Printf("Created view %q: %s\n", view.Name, view.ViewID)
		return nil
	},
}

var viewListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List the views of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("view list", err)
		}
		defer backend.Detach()

		views, err := backend.ListViews(args[0])
		if err != nil {
			fail("view list", err)
		}

		if flagJSON {
			printJSON(views)
			return nil
		}
		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tTYPE")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.ViewID, v.Name, v.Type)
		}
		return w.Flush()
	},
}

var viewShowCmd = &cobra.Command{
	Use:   "show <view-id>",
	Short: "Show a view and its configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("view show", err)
		}
		defer backend.Detach()

		view, err := backend.GetView(args[0])
		if err != nil {
			fail("view show", err)
		}
		printJSON(view)
		return nil
	},
}

var viewRenameCmd = &cobra.Command{
	Use:   "rename <view-id> <name>",
	Short: "Rename a view",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("view rename", err)
		}
		defer backend.Detach()

		if err := backend.RenameView(args[0], args[1]); err != nil {
			fail("view rename", err)
		}
		fmt.Println("Renamed view", args[0])
		return nil
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:   "delete <view-id>",
	Short: "Delete a view; a table always keeps at least one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fail("view delete", err)
		}
		defer backend.Detach()

		if err := backend.DeleteView(args[0]); err != nil {
			fail("view delete", err)
		}
		fmt.Println("Deleted view", args[0])
		return nil
	},
}

var viewConfigCmd = &cobra.Command{
	Use:   "config <view-id> <patch-json>",
	Short: "Patch a view's configuration",
	Long: `Patch applies a shallow merge over the view configuration: each key in
the patch replaces the stored key wholesale, and a JSON null deletes it.

Example:
  gridbase view config <id> '{"sort":{"columnId":"...","direction":"desc"}}'
  gridbase view config <id> '{"q":"alice"}'
  gridbase view config <id> '{"sort":null}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch types.ViewConfigPatch
		if err := json.Unmarshal([]byte(args[1]), &patch); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "view config: invalid patch JSON: %s\n", err)
			return err
		}

		backend, err := attachBackend()
		if err != nil {
			fail("view config", err)
		}
		defer backend.Detach()

		cfg, err := backend.UpdateViewConfig(args[0], patch)
		if err != nil {
			fail("view config", err)
		}
		printJSON(cfg)
		return nil
	},
}
