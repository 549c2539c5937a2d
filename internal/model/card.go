package model

import "strings"

// RewardUnit identifies what a reward tier pays out in.
type RewardUnit string

const (
	UnitCashback RewardUnit = "cashback"
	UnitPoints   RewardUnit = "points"
	UnitMiles    RewardUnit = "miles"
)

// PaymentMethod identifies how a purchase is (or must be) paid.
// MethodAny on a tier means the tier applies regardless of method;
// MethodAny on a purchase means the caller doesn't care.
type PaymentMethod string

const (
	MethodAny      PaymentMethod = "any"
	MethodApplePay PaymentMethod = "apple-pay"
	MethodGooglePay PaymentMethod = "google-pay"
	MethodPhysical PaymentMethod = "physical-card"
	MethodTap      PaymentMethod = "tap"
	MethodOnline   PaymentMethod = "online"
)

// CapPeriod is the recurring window over which a spending cap resets.
type CapPeriod string

const (
	PeriodNone      CapPeriod = "none"
	PeriodMonthly   CapPeriod = "monthly"
	PeriodQuarterly CapPeriod = "quarterly"
	PeriodAnnual    CapPeriod = "annual"
	PeriodStatement CapPeriod = "statement"
)

// ValidUnits, ValidMethods, and ValidPeriods enumerate the accepted
// enum values, in the order they are documented.
var (
	ValidUnits   = []RewardUnit{UnitCashback, UnitPoints, UnitMiles}
	ValidMethods = []PaymentMethod{MethodAny, MethodApplePay, MethodGooglePay, MethodPhysical, MethodTap, MethodOnline}
	ValidPeriods = []CapPeriod{PeriodNone, PeriodMonthly, PeriodQuarterly, PeriodAnnual, PeriodStatement}
)

// RewardTier is one reward rule on a card: a rate, the category and
// payment method it applies to, and an optional spending cap.
type RewardTier struct {
	// Rate is a percentage for cashback or a points/miles multiplier.
	Rate float64 `json:"rate"`
	Unit RewardUnit `json:"unit"`

	// Category is the spending category this tier rewards.
	Category string `json:"category"`

	// CategoryMatch set to "all" marks this tier as the card's
	// catch-all. Authoritative when present; older presets lack it
	// and are detected by category-text sniffing instead.
	CategoryMatch string `json:"categoryMatch,omitempty"`

	// Choices lists selectable categories for choose-your-own tiers.
	Choices []string `json:"choices,omitempty"`

	// Merchants is a comma-separated list of merchant names the tier
	// applies to, in addition to (or instead of) the category.
	Merchants string `json:"merchants,omitempty"`

	Method PaymentMethod `json:"method"`

	// Portal restricts the tier to purchases made through a shopping
	// portal of the same name.
	Portal string `json:"portal,omitempty"`

	// SpendingCap is the maximum rewarded spend per cap period.
	// Zero means unlimited.
	SpendingCap float64 `json:"spendingCap"`
	CapPeriod   CapPeriod `json:"capPeriod"`

	// CombinedCap pools the consumed-spend total with every other
	// tier on the same card that also sets it.
	CombinedCap bool `json:"combinedCap"`
}

// IsCatchAll reports whether this tier is the card's fallback tier.
//
// CategoryMatch == "all" is authoritative when the field is set.
// Legacy presets predate the field, so an unset CategoryMatch falls
// back to sniffing the category text for "all" (e.g. "All Other").
func (t RewardTier) IsCatchAll() bool {
	if t.CategoryMatch != "" {
		return t.CategoryMatch == "all"
	}
	return strings.Contains(strings.ToLower(t.Category), "all")
}

// Card is a tracked credit card and its reward rules.
type Card struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`

	Rewards []RewardTier `json:"rewards"`
	Perks   string       `json:"perks"`

	// RentDayBoost doubles non-rent tiers on the first calendar day
	// of the month.
	RentDayBoost bool `json:"rentDayBoost,omitempty"`

	// RewardMultiplier scales every tier's rate. Zero means unset
	// and is treated as 1.
	RewardMultiplier float64 `json:"rewardMultiplier,omitempty"`
}

// Multiplier returns the card-wide rate multiplier, defaulting to 1.
func (c Card) Multiplier() float64 {
	if c.RewardMultiplier == 0 {
		return 1
	}
	return c.RewardMultiplier
}

// CatchAll returns the card's catch-all tier, or nil if it has none.
// At most one tier per card should be a catch-all; the first wins.
func (c Card) CatchAll() *RewardTier {
	for i := range c.Rewards {
		if c.Rewards[i].IsCatchAll() {
			return &c.Rewards[i]
		}
	}
	return nil
}

// CatchAllRate returns the effective catch-all rate used once a capped
// tier's limit is reached: the catch-all tier's rate scaled by the
// card multiplier, or 1.0 when the card has no catch-all tier.
func (c Card) CatchAllRate() float64 {
	if t := c.CatchAll(); t != nil {
		return t.Rate * c.Multiplier()
	}
	return 1.0
}
