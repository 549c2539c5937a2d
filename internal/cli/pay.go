package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardwise/internal/model"
)

// NewPayCommand creates the pay command group.
func NewPayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record and list payments",
	}
	cmd.AddCommand(newPayAddCommand(rootOpts))
	cmd.AddCommand(newPayListCommand(rootOpts))
	cmd.AddCommand(newPayRemoveCommand(rootOpts))
	return cmd
}

type payAddOptions struct {
	Amount   float64
	Category string
	Card     string
	Method   string
	Merchant string
	Date     string
}

func newPayAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &payAddOptions{}

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Record a payment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayAdd(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Amount, "amount", 0, "payment amount (required)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "spending category (required)")
	cmd.Flags().StringVar(&opts.Card, "card", "", "card id or name (required)")
	cmd.Flags().StringVar(&opts.Method, "method", string(model.MethodAny), "payment method")
	cmd.Flags().StringVar(&opts.Merchant, "merchant", "", "merchant name")
	cmd.Flags().StringVar(&opts.Date, "date", "", "payment date (RFC 3339, default now)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}

func runPayAdd(rootOpts *RootOptions, opts *payAddOptions, cmd *cobra.Command) error {
	if opts.Amount <= 0 {
		return NewExitError(ExitCommandError, "amount must be positive")
	}

	st, _, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := cmd.Context()

	cards, err := st.Cards(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read cards", err)
	}
	card, ok := resolveCard(cards, opts.Card)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("no card matching %q", opts.Card))
	}

	payment := model.Payment{
		Amount:   opts.Amount,
		Category: opts.Category,
		CardID:   card.ID,
		CardName: card.Name,
		Method:   model.PaymentMethod(opts.Method),
		Merchant: opts.Merchant,
	}
	if opts.Date != "" {
		at, err := time.Parse(time.RFC3339, opts.Date)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid date", err)
		}
		payment.Date = at
	}

	added, err := st.AddPayment(ctx, payment)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save payment", err)
	}

	f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
	return f.Print(added, func(w io.Writer) error {
		fmt.Fprintf(w, "Recorded %s on %s (%s)\n", f.Money(added.Amount), added.CardName, added.Category)
		return nil
	})
}

// resolveCard finds a card by numeric ID or case-insensitive name.
func resolveCard(cards []model.Card, ref string) (model.Card, bool) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	for _, c := range cards {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Card{}, false
}

func newPayListCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List payments, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			payments, err := st.Payments(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read payments", err)
			}
			if limit > 0 && len(payments) > limit {
				payments = payments[:limit]
			}

			f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
			return f.Print(payments, func(w io.Writer) error {
				if len(payments) == 0 {
					fmt.Fprintln(w, "No payments recorded.")
					return nil
				}
				for _, p := range payments {
					line := fmt.Sprintf("%d  %s  %s  %s  %s",
						p.ID, p.Date.Format("2006-01-02"), f.Money(p.Amount), p.Category, p.CardName)
					if p.Merchant != "" {
						line += "  @" + p.Merchant
					}
					fmt.Fprintln(w, line)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many payments (0 = all)")
	return cmd
}

func newPayRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <payment-id>",
		Short:         "Remove a payment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid payment id", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			removed, err := st.RemovePayment(cmd.Context(), id)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to remove payment", err)
			}
			if !removed {
				return NewExitError(ExitFailure, fmt.Sprintf("no payment with id %d", id))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed payment %d\n", id)
			return nil
		},
	}
}
