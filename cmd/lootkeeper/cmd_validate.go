package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd validates every authored surface.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all authored surfaces",
	Long: `Checks every loaded surface for configuration defects: unknown action
kinds or claim policies, duplicate ids, broken parent or follow_up links,
and item lists that cannot be packed under the structural budget. Exits
non-zero when any defect is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		errs := eng.ValidateAll(cmd.Context())
		if len(errs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "all surfaces valid")
			return nil
		}
		for _, e := range errs {
			fmt.Fprintln(cmd.OutOrStdout(), e.Error())
		}
		return fmt.Errorf("%d configuration error(s)", len(errs))
	},
}
