package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	executeSurface string
	executeBundle  string
	executeActor   string
)

// executeCmd executes one action bundle for an actor.
var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute an action bundle for an actor",
	Long: `Detects the bundles on a surface, resolves the named bundle (by its
parent action id, or the action id itself for a standalone action), executes
its children in order with per-child failure isolation, and prints the
rendered result payload as JSON.

Successful grants are durably committed before they are reported; re-running
a fully-claimed bundle reports the same failures without further mutation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		payload, err := eng.ExecuteBundle(cmd.Context(), guildID, executeSurface, executeBundle, executeActor)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	executeCmd.Flags().StringVar(&executeSurface, "surface", "", "Surface id the bundle lives on")
	executeCmd.Flags().StringVar(&executeBundle, "bundle", "", "Bundle reference (parent action id)")
	executeCmd.Flags().StringVar(&executeActor, "actor", "", "Actor id the bundle executes for")
	_ = executeCmd.MarkFlagRequired("surface")
	_ = executeCmd.MarkFlagRequired("bundle")
	_ = executeCmd.MarkFlagRequired("actor")
}
