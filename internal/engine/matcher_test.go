package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cardwise/internal/model"
)

func TestMethodCompatible(t *testing.T) {
	tests := []struct {
		name     string
		tier     model.PaymentMethod
		purchase model.PaymentMethod
		want     bool
	}{
		{"tier any accepts everything", model.MethodAny, model.MethodOnline, true},
		{"purchase any satisfies everything", model.MethodApplePay, model.MethodAny, true},
		{"exact match", model.MethodTap, model.MethodTap, true},
		{"mismatch", model.MethodApplePay, model.MethodPhysical, false},
		{"empty tier method treated as any", "", model.MethodOnline, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := methodCompatible(model.RewardTier{Method: tt.tier}, model.Purchase{Method: tt.purchase})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierMatches_CategorySubstringBothDirections(t *testing.T) {
	tier := model.RewardTier{Category: "Dining & Restaurants"}

	assert.True(t, tierMatches(tier, model.Purchase{Category: "Dining"}))
	assert.True(t, tierMatches(model.RewardTier{Category: "Gas"}, model.Purchase{Category: "Gas Stations"}))
	assert.False(t, tierMatches(tier, model.Purchase{Category: "Groceries"}))
}

func TestTierMatches_MerchantList(t *testing.T) {
	tier := model.RewardTier{Category: "Streaming", Merchants: "Netflix, Spotify, Hulu"}

	assert.True(t, tierMatches(tier, model.Purchase{Category: "Entertainment", Merchant: "spotify"}))
	assert.True(t, tierMatches(tier, model.Purchase{Category: "Entertainment", Merchant: "Netflix.com"}))
	assert.False(t, tierMatches(tier, model.Purchase{Category: "Entertainment", Merchant: "Disney"}))
}

func TestTierMatches_CatchAllMatchesEverything(t *testing.T) {
	explicit := model.RewardTier{Category: "Everything Else", CategoryMatch: "all"}
	legacy := model.RewardTier{Category: "All Other Purchases"}

	assert.True(t, tierMatches(explicit, model.Purchase{Category: "Llama Grooming"}))
	assert.True(t, tierMatches(legacy, model.Purchase{Category: "Llama Grooming"}))
}

func TestTierMatches_PortalGate(t *testing.T) {
	tier := model.RewardTier{Category: "Travel", Portal: "Chase Travel"}

	assert.True(t, tierMatches(tier, model.Purchase{Category: "Travel", Portal: "chase travel"}))
	assert.False(t, tierMatches(tier, model.Purchase{Category: "Travel"}))
	assert.False(t, tierMatches(tier, model.Purchase{Category: "Travel", Portal: "Capital One"}))
}

func TestTierMatches_EmptyCategoriesDontMatch(t *testing.T) {
	assert.False(t, tierMatches(model.RewardTier{Category: "Dining"}, model.Purchase{}))
	assert.False(t, tierMatches(model.RewardTier{}, model.Purchase{Category: "Dining"}))
}
