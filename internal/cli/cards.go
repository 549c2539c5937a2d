package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cardwise/internal/model"
)

// NewCardsCommand creates the cards command group.
func NewCardsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage tracked cards",
	}
	cmd.AddCommand(newCardsListCommand(rootOpts))
	cmd.AddCommand(newCardsAddCommand(rootOpts))
	cmd.AddCommand(newCardsRemoveCommand(rootOpts))
	return cmd
}

func newCardsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List tracked cards and their reward tiers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			cards, err := st.Cards(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read cards", err)
			}

			f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
			return f.Print(cards, func(w io.Writer) error {
				if len(cards) == 0 {
					fmt.Fprintln(w, "No cards yet. Add one with: cardwise cards add --name <name>")
					return nil
				}
				for _, c := range cards {
					fmt.Fprintf(w, "%d  %s (%s)\n", c.ID, c.Name, c.Issuer)
					for _, tier := range c.Rewards {
						line := fmt.Sprintf("    %g%% %s on %s", tier.Rate, tier.Unit, tier.Category)
						if tier.SpendingCap > 0 {
							line += fmt.Sprintf(" (cap %s/%s)", f.Money(tier.SpendingCap), tier.CapPeriod)
						}
						fmt.Fprintln(w, line)
					}
					if c.Perks != "" {
						fmt.Fprintf(w, "    perks: %s\n", c.Perks)
					}
				}
				return nil
			})
		},
	}
}

type cardsAddOptions struct {
	Name         string
	Issuer       string
	Perks        string
	RentDayBoost bool
	Multiplier   float64
	Preset       string
	TiersFile    string
}

func newCardsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cardsAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Long: `Add a card to track.

Reward tiers come from one of:
  --preset      copy tiers from an installed preset by name
  --tiers-file  a JSON file holding an array of reward tiers

A card added without either gets a single 1% catch-all tier.

Example:
  cardwise cards add --name "Freedom Flex" --issuer Chase --preset "Freedom Flex"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardsAdd(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "card name (required)")
	cmd.Flags().StringVar(&opts.Issuer, "issuer", "", "issuing bank")
	cmd.Flags().StringVar(&opts.Perks, "perks", "", "perks description")
	cmd.Flags().BoolVar(&opts.RentDayBoost, "rent-day-boost", false, "double non-rent tiers on the 1st of the month")
	cmd.Flags().Float64Var(&opts.Multiplier, "multiplier", 0, "card-wide reward multiplier")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "copy reward tiers from an installed preset")
	cmd.Flags().StringVar(&opts.TiersFile, "tiers-file", "", "JSON file with reward tiers")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runCardsAdd(rootOpts *RootOptions, opts *cardsAddOptions, cmd *cobra.Command) error {
	st, _, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := cmd.Context()

	card := model.Card{
		Name:             opts.Name,
		Issuer:           opts.Issuer,
		Perks:            opts.Perks,
		RentDayBoost:     opts.RentDayBoost,
		RewardMultiplier: opts.Multiplier,
	}

	switch {
	case opts.Preset != "":
		presets, err := st.Presets(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read presets", err)
		}
		found := false
		for _, p := range presets {
			if strings.EqualFold(p.Name, opts.Preset) {
				card.Rewards = p.Rewards
				if card.Issuer == "" {
					card.Issuer = p.Issuer
				}
				if card.Perks == "" {
					card.Perks = p.Perks
				}
				found = true
				break
			}
		}
		if !found {
			return NewExitError(ExitFailure, fmt.Sprintf("no preset named %q; install one with: cardwise presets load", opts.Preset))
		}
	case opts.TiersFile != "":
		data, err := os.ReadFile(opts.TiersFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read tiers file", err)
		}
		if err := json.Unmarshal(data, &card.Rewards); err != nil {
			return WrapExitError(ExitCommandError, "failed to parse tiers file", err)
		}
	default:
		card.Rewards = []model.RewardTier{{
			Rate: 1, Unit: model.UnitCashback,
			Category: "All Other", CategoryMatch: "all",
			Method: model.MethodAny, CapPeriod: model.PeriodNone,
		}}
	}

	added, err := st.AddCard(ctx, card)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save card", err)
	}

	f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
	return f.Print(added, func(w io.Writer) error {
		fmt.Fprintf(w, "Added card %d: %s\n", added.ID, added.Name)
		return nil
	})
}

func newCardsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <card-id>",
		Short:         "Remove a card",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid card id", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			removed, err := st.RemoveCard(cmd.Context(), id)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to remove card", err)
			}
			if !removed {
				return NewExitError(ExitFailure, fmt.Sprintf("no card with id %d", id))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed card %d\n", id)
			return nil
		},
	}
}
