package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored data",
		Long: `Delete every card, payment, preset, flag, and backup record from
both storage layers. A linked backup file on disk is untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to wipe without --yes")
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if !st.ClearAll(cmd.Context()) {
				return NewExitError(ExitFailure, "reset incomplete: some data could not be removed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of all data")
	return cmd
}
