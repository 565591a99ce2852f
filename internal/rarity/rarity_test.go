package rarity

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(r int) int { return r }

func TestTable_WeightClamps(t *testing.T) {
	tbl := Table{Weights: DefaultWeights}
	assert.Equal(t, 100.0, tbl.Weight(0))
	assert.Equal(t, 50.0, tbl.Weight(2))
	assert.Equal(t, 100.0, tbl.Weight(-3))
	assert.Equal(t, 25.0, tbl.Weight(9))
	assert.Equal(t, 1.0, Table{}.Weight(4))
}

func TestPick_Empty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	_, ok := Pick(rng, Table{Weights: DefaultWeights}, []int(nil), identity)
	assert.False(t, ok)
}

func TestPick_RarityRatio(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	tbl := Table{Weights: []float64{100, 75, 50, 25}}
	// Two items at rarity 0, one at 1, one at 2, identified by index.
	rarities := []int{0, 0, 1, 2}
	idx := []int{0, 1, 2, 3}

	counts := make([]int, len(idx))
	const draws = 100000
	for i := 0; i < draws; i++ {
		got, ok := Pick(rng, tbl, idx, func(i int) int { return rarities[i] })
		require.True(t, ok)
		counts[got]++
	}

	// A single rarity-0 item carries weight 100 against 50 for rarity 2;
	// both rarity-0 items together are drawn about 4x as often.
	rarity0 := counts[0] + counts[1]
	ratio := float64(rarity0) / float64(counts[3])
	assert.InDelta(t, 4.0, ratio, 0.3)
	assert.InDelta(t, 2.0, float64(counts[0])/float64(counts[3]), 0.2)
}

func TestPick_NonPositiveTotalIsUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	tbl := Table{Weights: []float64{0}}
	counts := map[string]int{}
	items := []string{"a", "b", "c"}
	for i := 0; i < 30000; i++ {
		got, ok := Pick(rng, tbl, items, func(string) int { return 0 })
		require.True(t, ok)
		counts[got]++
	}
	for _, it := range items {
		assert.InDelta(t, 10000, counts[it], 600, it)
	}
}

func TestPick_ZeroWeightTierNeverDrawn(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	tbl := Table{Weights: []float64{10, 0}}
	for i := 0; i < 1000; i++ {
		got, _ := Pick(rng, tbl, []int{0, 1}, identity)
		assert.Equal(t, 0, got)
	}
}
