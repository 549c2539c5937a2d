package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/cardwise/internal/model"
)

// Recommendation is one ranked card/tier option for a purchase.
type Recommendation struct {
	Card model.Card       `json:"card"`
	Tier model.RewardTier `json:"reward"`

	// EffectiveRate already includes the card multiplier, rent-day
	// boost, and any cap blending.
	EffectiveRate float64 `json:"effectiveRate"`

	// Cashback is Amount x EffectiveRate / 100 regardless of the
	// tier's unit; points and miles rank as equivalent percentage
	// yield.
	Cashback float64 `json:"cashbackValue"`

	// CapStatus is the textual remaining-cap amount, empty for
	// uncapped tiers.
	CapStatus string `json:"capStatus,omitempty"`
}

// Engine evaluates reward rules against candidate purchases.
type Engine struct {
	clock Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an Engine. Without options it uses the system clock.
func New(opts ...Option) *Engine {
	e := &Engine{clock: SystemClock()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend produces the ranked card/tier options for a purchase,
// highest expected value first. Ties preserve discovery order: card
// list order, then reward tier order within a card.
//
// An empty card list is a precondition failure (RecommendError with
// ErrCodeNoCards). A card list where nothing matches is not: it
// yields an empty, non-nil slice.
func (e *Engine) Recommend(cards []model.Card, payments []model.Payment, purchase model.Purchase) ([]Recommendation, error) {
	if len(cards) == 0 {
		return nil, NewNoCardsError()
	}
	if purchase.Amount <= 0 {
		return nil, NewInvalidPurchaseError("purchase amount must be positive")
	}

	now := e.clock.Now()
	recs := []Recommendation{}

	for _, card := range cards {
		for _, tier := range card.Rewards {
			if !methodCompatible(tier, purchase) {
				continue
			}
			if !tierMatches(tier, purchase) {
				continue
			}

			rec, eligible := e.score(card, tier, payments, purchase, now)
			if !eligible {
				continue
			}
			recs = append(recs, rec)
		}
	}

	// Stable sort keeps discovery order for equal cashback values.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Cashback > recs[j].Cashback
	})
	return recs, nil
}

// score computes the effective rate and cashback for one card x tier,
// applying cap accounting. eligible=false means the tier's cap is
// exhausted for the current period and the tier produces no option at
// all, not a fallback-rate one.
func (e *Engine) score(card model.Card, tier model.RewardTier, payments []model.Payment, purchase model.Purchase, now time.Time) (Recommendation, bool) {
	rate := tier.Rate * card.Multiplier()

	// Rent-day boost: on the first calendar day of the month the
	// card doubles every non-rent tier. Calendar-dependent, never
	// persisted.
	if card.RentDayBoost && now.Day() == 1 && !strings.EqualFold(strings.TrimSpace(tier.Category), "rent") {
		rate *= 2
	}

	rec := Recommendation{
		Card:          card,
		Tier:          tier,
		EffectiveRate: rate,
	}

	if tier.SpendingCap > 0 {
		since := periodStart(tier.CapPeriod, now)
		spent := periodSpend(payments, card.ID, since)
		remaining := tier.SpendingCap - spent

		switch {
		case remaining <= 0:
			// Hard skip: an exhausted cap excludes the tier.
			return Recommendation{}, false
		case remaining < purchase.Amount:
			// The in-cap portion earns the tier rate, the rest
			// earns the card's catch-all rate; the effective rate
			// is the weighted average.
			catchAll := card.CatchAllRate()
			rec.EffectiveRate = (remaining*rate + (purchase.Amount-remaining)*catchAll) / purchase.Amount
			rec.CapStatus = formatCap(remaining)
		default:
			rec.CapStatus = formatCap(remaining)
		}
	}

	rec.Cashback = purchase.Amount * rec.EffectiveRate / 100
	return rec, true
}

func formatCap(remaining float64) string {
	return fmt.Sprintf("%.2f", remaining)
}
