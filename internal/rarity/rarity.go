// Package rarity draws items at random, weighted by rarity tier.
package rarity

import "math/rand/v2"

// DefaultWeights favor common items: each tier is drawn less often than the
// one before it.
var DefaultWeights = []float64{100, 75, 50, 25}

// Table maps a rarity tier to its draw weight.
type Table struct {
	Weights []float64
}

// Weight returns the weight for rarity r. Rarities outside the table are
// clamped to the nearest defined tier.
func (t Table) Weight(r int) float64 {
	if len(t.Weights) == 0 {
		return 1
	}
	if r < 0 {
		r = 0
	}
	if r >= len(t.Weights) {
		r = len(t.Weights) - 1
	}
	return t.Weights[r]
}

// Pick draws one element of items with probability proportional to the
// weight of its rarity. When the total weight is not positive every element
// is equally likely. ok is false only for an empty slice.
func Pick[T any](rng *rand.Rand, t Table, items []T, rarityOf func(T) int) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}

	var total float64
	for _, it := range items {
		if w := t.Weight(rarityOf(it)); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return items[rng.IntN(len(items))], true
	}

	target := rng.Float64() * total
	var acc float64
	for _, it := range items {
		w := t.Weight(rarityOf(it))
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return it, true
		}
	}
	// Floating point rounding can leave target == total; take the last
	// drawable element.
	for i := len(items) - 1; i >= 0; i-- {
		if t.Weight(rarityOf(items[i])) > 0 {
			return items[i], true
		}
	}
	return items[len(items)-1], true
}
