package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cardwise/internal/presets"
)

// NewPresetsCommand creates the presets command group.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage card preset catalogs",
		Long: `Load and inspect preset catalogs: named card templates with
prebuilt reward tiers that "cards add --preset" copies from.`,
	}
	cmd.AddCommand(newPresetsLoadCommand(rootOpts))
	cmd.AddCommand(newPresetsListCommand(rootOpts))
	return cmd
}

func newPresetsLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load <catalog.yaml>",
		Short:         "Validate a catalog file and store its presets",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			cards, err := presets.Install(cmd.Context(), st, args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "failed to load catalog", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d preset(s).\n", len(cards))
			return nil
		},
	}
}

func newPresetsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored presets",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			stored, err := st.Presets(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read presets", err)
			}

			f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
			return f.Print(stored, func(w io.Writer) error {
				if len(stored) == 0 {
					fmt.Fprintln(w, "No presets stored. Load a catalog with: cardwise presets load <file>")
					return nil
				}
				for _, p := range stored {
					fmt.Fprintf(w, "%s (%s): %d tier(s)\n", p.Name, p.Issuer, len(p.Rewards))
				}
				return nil
			})
		},
	}
}
