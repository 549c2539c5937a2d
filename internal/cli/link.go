package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type linkOptions struct {
	Manual   string
	PickFile string
}

// NewLinkCommand creates the link command.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &linkOptions{}

	cmd := &cobra.Command{
		Use:   "link [file]",
		Short: "Link a backup file for syncing",
		Long: `Link a backup file.

With a file argument, the link is native: sync writes the file in
place and pull re-reads it. With --manual, only the filename is
recorded; sync then drops exports into the downloads directory for
you to move by hand, and --pick imports a picked file once at link
time (the manual counterpart of pulling).

Examples:
  cardwise link ~/Dropbox/wallet-backup.json
  cardwise link --manual wallet-backup.json --pick ~/Downloads/wallet-backup.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Manual, "manual", "", "record a filename-only fallback link")
	cmd.Flags().StringVar(&opts.PickFile, "pick", "", "import this file once while fallback-linking")
	return cmd
}

func runLink(rootOpts *RootOptions, opts *linkOptions, cmd *cobra.Command, args []string) error {
	m, st, err := openManager(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := cmd.Context()

	switch {
	case opts.Manual != "":
		var contents []byte
		if opts.PickFile != "" {
			contents, err = os.ReadFile(opts.PickFile)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read picked file", err)
			}
		}
		link, err := m.LinkFallbackFile(ctx, opts.Manual, contents)
		if err != nil {
			return WrapExitError(ExitFailure, "link failed", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s (manual sync)\n", link.Name)
		return nil
	case len(args) == 1:
		link, err := m.LinkNativeFile(ctx, args[0])
		if err != nil {
			return WrapExitError(ExitFailure, "link failed", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s\n", link.Path)
		return nil
	default:
		return NewExitError(ExitCommandError, "pass a file to link, or --manual <name>")
	}
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "unlink",
		Short:         "Unlink the backup file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, st, err := openManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if !m.Unlink(cmd.Context()) {
				return NewExitError(ExitFailure, "unlink left some bookkeeping behind")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Unlinked.")
			return nil
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sync",
		Short:         "Write current data to the linked file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, st, err := openManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			res := m.Sync(cmd.Context())
			f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
			printErr := f.Print(res, func(w io.Writer) error {
				switch {
				case res.Success && res.Manual:
					fmt.Fprintln(w, "Export written to downloads; move it over your backup file.")
				case res.Success:
					fmt.Fprintln(w, "Synced.")
				default:
					fmt.Fprintf(w, "Sync failed: %s\n", res.Error)
				}
				return nil
			})
			if printErr != nil {
				return printErr
			}
			if !res.Success {
				return NewExitError(ExitFailure, res.Error)
			}
			return nil
		},
	}
}

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Overwrite local data from the linked file",
		Long: `Read the linked file and overwrite matching local data with its
contents. Local edits made since the file changed are lost; without
--force, pull refuses when no external change is detected.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, st, err := openManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()

			if !force && !m.CheckExternalChanges(ctx) {
				return NewExitError(ExitFailure, "linked file has no external changes; use --force to pull anyway")
			}

			res := m.Pull(ctx)
			if !res.Success {
				return NewExitError(ExitFailure, res.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pulled.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "pull even without a detected external change")
	return cmd
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show backup link and storage status",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, st, err := openManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()

			if persist && !st.RequestPersistence(ctx) {
				return NewExitError(ExitFailure, "persistence request was not granted")
			}

			backup := m.Status(ctx)
			storage, err := st.Status(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read storage status", err)
			}

			combined := struct {
				Backup  any `json:"backup"`
				Storage any `json:"storage"`
			}{backup, storage}

			f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
			return f.Print(combined, func(w io.Writer) error {
				if !backup.IsLinked {
					fmt.Fprintln(w, "No backup file linked.")
				} else {
					mode := "manual"
					if backup.IsNative {
						mode = "native"
					}
					fmt.Fprintf(w, "Linked: %s (%s)\n", backup.FileName, mode)
					fmt.Fprintf(w, "Last backup: %s\n", formatMillis(backup.LastBackupTime))
					fmt.Fprintf(w, "Last pull:   %s\n", formatMillis(backup.LastPullTime))
					fmt.Fprintf(w, "Pending transactions: %d\n", backup.PendingTransactions)
					if backup.IsNative && m.CheckExternalChanges(ctx) {
						fmt.Fprintln(w, "Linked file changed externally; consider: cardwise pull")
					}
				}
				fmt.Fprintf(w, "Storage: %s of %s used (%.1f%%), persisted=%v\n",
					byteSize(storage.Usage), byteSize(storage.Quota), storage.Percentage, storage.Persisted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "request full durability before reporting")
	return cmd
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}

func byteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
