package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cardwise/internal/engine"
	"github.com/roach88/cardwise/internal/model"
)

type recommendOptions struct {
	Category string
	Amount   float64
	Method   string
	Merchant string
	Portal   string
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank cards for a purchase",
		Long: `Rank your cards for a candidate purchase, highest expected value
first, accounting for spending caps already consumed this period.

Example:
  cardwise recommend --category Groceries --amount 120 --method apple-pay`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "purchase category (required)")
	cmd.Flags().Float64Var(&opts.Amount, "amount", 0, "purchase amount (required)")
	cmd.Flags().StringVar(&opts.Method, "method", string(model.MethodAny), "payment method")
	cmd.Flags().StringVar(&opts.Merchant, "merchant", "", "merchant name")
	cmd.Flags().StringVar(&opts.Portal, "portal", "", "shopping portal")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runRecommend(rootOpts *RootOptions, opts *recommendOptions, cmd *cobra.Command) error {
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
	payments, err := st.Payments(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read payments", err)
	}

	purchase := model.Purchase{
		Category: opts.Category,
		Amount:   opts.Amount,
		Method:   model.PaymentMethod(opts.Method),
		Merchant: opts.Merchant,
		Portal:   opts.Portal,
	}

	recs, err := engine.New().Recommend(cards, payments, purchase)
	if err != nil {
		if engine.IsNoCardsError(err) {
			return WrapExitError(ExitFailure, "nothing to recommend", err)
		}
		return WrapExitError(ExitCommandError, "recommendation failed", err)
	}

	f := NewFormatter(rootOpts.Format, cmd.OutOrStdout())
	return f.Print(recs, func(w io.Writer) error {
		if len(recs) == 0 {
			fmt.Fprintln(w, "No reward tier matches this purchase.")
			return nil
		}
		for i, r := range recs {
			line := fmt.Sprintf("%d. %s - %s back (%s on %s)",
				i+1, r.Card.Name, f.Money(r.Cashback), f.Rate(r.EffectiveRate), r.Tier.Category)
			if r.CapStatus != "" {
				line += fmt.Sprintf(" [cap remaining %s]", r.CapStatus)
			}
			fmt.Fprintln(w, line)
		}
		return nil
	})
}
