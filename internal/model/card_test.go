package model

import (
	"testing"
	"time"
)

func TestIsCatchAll_AuthoritativeField(t *testing.T) {
	tests := []struct {
		name string
		tier RewardTier
		want bool
	}{
		{"explicit all", RewardTier{Category: "Everything Else", CategoryMatch: "all"}, true},
		{"explicit non-all wins over sniff", RewardTier{Category: "All Other", CategoryMatch: "dining"}, false},
		{"legacy sniff matches", RewardTier{Category: "All Other Purchases"}, true},
		{"legacy sniff case-insensitive", RewardTier{Category: "ALL other"}, true},
		{"plain category", RewardTier{Category: "Dining"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.IsCatchAll(); got != tt.want {
				t.Errorf("IsCatchAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatchAllRate_DefaultsToOne(t *testing.T) {
	c := Card{Rewards: []RewardTier{{Category: "Dining", Rate: 3}}}
	if got := c.CatchAllRate(); got != 1.0 {
		t.Errorf("CatchAllRate() = %v, want 1.0", got)
	}
}

func TestCatchAllRate_ScalesWithMultiplier(t *testing.T) {
	c := Card{
		RewardMultiplier: 1.5,
		Rewards: []RewardTier{
			{Category: "Dining", Rate: 3},
			{Category: "All Other", CategoryMatch: "all", Rate: 2},
		},
	}
	if got := c.CatchAllRate(); got != 3.0 {
		t.Errorf("CatchAllRate() = %v, want 3.0", got)
	}
}

func TestMultiplier_ZeroMeansUnset(t *testing.T) {
	if got := (Card{}).Multiplier(); got != 1 {
		t.Errorf("Multiplier() = %v, want 1", got)
	}
	if got := (Card{RewardMultiplier: 2}).Multiplier(); got != 2 {
		t.Errorf("Multiplier() = %v, want 2", got)
	}
}

func TestNextPaymentID_BumpsPastCollisions(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	existing := []Payment{{ID: 1700000000000}, {ID: 1700000000001}}

	id := NextPaymentID(existing, now)
	if id != 1700000000002 {
		t.Errorf("NextPaymentID() = %d, want 1700000000002", id)
	}
}

func TestNextPaymentID_NoCollision(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if id := NextPaymentID(nil, now); id != 1700000000000 {
		t.Errorf("NextPaymentID() = %d, want 1700000000000", id)
	}
}
