package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var renderCursor string

// renderCmd renders one page of a list and prints the structural payload.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one page of a list as a structural payload",
	Long: `Resolves a cursor ("<list>:<page>") to one page of its list, packs it
under the platform's structural budget, and prints the resulting payload as
JSON. List ids are surface ids, or "inv:<actor>" for an actor's inventory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		payload, err := eng.RenderPage(cmd.Context(), guildID, renderCursor)
		if err != nil {
			// The payload is still deliverable; the error is operator info.
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
	renderCmd.Flags().StringVar(&renderCursor, "cursor", "", "Cursor to render, e.g. shop:0")
	_ = renderCmd.MarkFlagRequired("cursor")
}
