// Package model defines the domain entities shared by the store, the
// sync manager, and the recommendation engine: cards, reward tiers,
// payments, purchases, and backup bookkeeping.
//
// All JSON field names match the on-disk backup document format, which
// is versioned (see store.ExportVersion) and must stay byte-compatible
// across releases.
package model
