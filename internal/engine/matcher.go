package engine

import (
	"strings"

	"github.com/roach88/cardwise/internal/model"
)

// methodCompatible reports whether a tier's required payment method
// admits the purchase's method.
//
// A tier requiring "any" accepts every method; a purchase paying with
// "any" (caller doesn't care) satisfies every tier; otherwise the
// methods must match exactly.
func methodCompatible(tier model.RewardTier, purchase model.Purchase) bool {
	if tier.Method == model.MethodAny || tier.Method == "" {
		return true
	}
	if purchase.Method == model.MethodAny || purchase.Method == "" {
		return true
	}
	return tier.Method == purchase.Method
}

// tierMatches reports whether a tier is a candidate for the purchase.
//
// A tier matches on any of:
//   - category substring containment, in either direction
//   - the purchase merchant appearing in the tier's merchant list
//     (substring, either direction)
//   - the tier being the card's catch-all
//
// and additionally its portal, when set, must match the purchase's.
// The substring heuristic is deliberately fuzzy; it is the historical
// matching behavior of the stored data and presets.
func tierMatches(tier model.RewardTier, purchase model.Purchase) bool {
	if tier.Portal != "" && !strings.EqualFold(tier.Portal, purchase.Portal) {
		return false
	}

	if categoryMatches(tier.Category, purchase.Category) {
		return true
	}
	if merchantMatches(tier.Merchants, purchase.Merchant) {
		return true
	}
	return tier.IsCatchAll()
}

// categoryMatches checks bidirectional substring containment,
// case-insensitively. Empty strings on either side never match; the
// catch-all path handles "match everything" tiers.
func categoryMatches(tierCategory, purchaseCategory string) bool {
	a := strings.ToLower(strings.TrimSpace(tierCategory))
	b := strings.ToLower(strings.TrimSpace(purchaseCategory))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// merchantMatches checks the purchase merchant against a tier's
// comma-separated merchant list, substring in either direction.
func merchantMatches(tierMerchants, purchaseMerchant string) bool {
	m := strings.ToLower(strings.TrimSpace(purchaseMerchant))
	if tierMerchants == "" || m == "" {
		return false
	}
	for _, entry := range strings.Split(tierMerchants, ",") {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}
		if strings.Contains(e, m) || strings.Contains(m, e) {
			return true
		}
	}
	return false
}
