package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cardwise/internal/model"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period model.CapPeriod
		want   time.Time
	}{
		{"monthly", model.PeriodMonthly, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"statement resolves to calendar month", model.PeriodStatement, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"quarterly", model.PeriodQuarterly, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"annual", model.PeriodAnnual, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"none defaults to month", model.PeriodNone, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, periodStart(tt.period, now))
		})
	}
}

func TestPeriodStart_QuarterBoundaries(t *testing.T) {
	for month, wantQuarterStart := range map[time.Month]time.Month{
		time.January:   time.January,
		time.March:     time.January,
		time.April:     time.April,
		time.June:      time.April,
		time.July:      time.July,
		time.September: time.July,
		time.October:   time.October,
		time.December:  time.October,
	} {
		now := time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC)
		got := periodStart(model.PeriodQuarterly, now)
		assert.Equal(t, wantQuarterStart, got.Month(), "month %v", month)
	}
}

func TestPeriodSpend_FiltersByCardAndWindow(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	payments := []model.Payment{
		{ID: 1, CardID: 1, Amount: 40, Date: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CardID: 1, Amount: 60, Date: since}, // boundary is inclusive
		{ID: 3, CardID: 1, Amount: 99, Date: time.Date(2026, 7, 31, 23, 59, 0, 0, time.UTC)},
		{ID: 4, CardID: 2, Amount: 500, Date: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
	}

	assert.InDelta(t, 100.0, periodSpend(payments, 1, since), 1e-9)
	assert.InDelta(t, 500.0, periodSpend(payments, 2, since), 1e-9)
	assert.Zero(t, periodSpend(payments, 3, since))
}
