package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Export all data to a backup file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			dir := outDir
			if dir == "" {
				dir = cfg.DownloadsDir
			}

			path, err := st.ExportToFile(cmd.Context(), dir)
			if err != nil {
				return WrapExitError(ExitCommandError, "export failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: downloads dir)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a backup file",
		Long: `Import a backup document. Only recognized top-level keys are
applied; anything the document does not mention is left untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read backup file", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Import(cmd.Context(), data); err != nil {
				return WrapExitError(ExitFailure, "import failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}
}
