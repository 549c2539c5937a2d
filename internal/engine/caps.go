package engine

import (
	"time"

	"github.com/roach88/cardwise/internal/model"
)

// periodStart returns the start of the current cap window.
//
// Monthly and statement periods both resolve to the calendar-month
// start: a true statement-cycle boundary would need a per-card
// statement day the data model does not carry.
func periodStart(period model.CapPeriod, now time.Time) time.Time {
	switch period {
	case model.PeriodQuarterly:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		return time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	case model.PeriodAnnual:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		// monthly, statement, and anything unrecognized
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// periodSpend sums the card's payments dated on or after the window
// start. The aggregate is card-wide, not tier-scoped: tiers flagged
// combinedCap share it by definition, and computing the identical
// aggregate regardless of which tier is being evaluated is exactly
// how the pooling works.
func periodSpend(payments []model.Payment, cardID int64, since time.Time) float64 {
	var total float64
	for _, p := range payments {
		if p.CardID != cardID {
			continue
		}
		if p.Date.Before(since) {
			continue
		}
		total += p.Amount
	}
	return total
}
