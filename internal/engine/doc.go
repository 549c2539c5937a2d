// Package engine ranks a user's cards for a candidate purchase.
//
// For every card x reward tier the engine checks method, category,
// merchant, and portal compatibility, computes the effective rate
// (card multiplier, first-of-month rent-day boost), and applies
// spending-cap accounting against the payment history: a tier whose
// cap is exhausted for the current period is excluded outright, and a
// tier whose remaining cap only partially covers the purchase earns a
// rate blended with the card's catch-all tier.
//
// The engine is a pure function over its inputs plus an injectable
// clock; it never touches storage itself.
package engine
