package hnsw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelMult(t *testing.T) {
	assert.InDelta(t, float32(1.0/2.302585), levelMult(10), 1e-4)
}

func TestDrawLevelNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mult := levelMult(16)
	for i := 0; i < 1000; i++ {
		l := drawLevel(rng, mult)
		assert.GreaterOrEqual(t, l, 0)
	}
}

func TestDrawLevelDistributionShrinksWithM(t *testing.T) {
	// Larger M yields a smaller level_mult (1/ln M), and hence lower drawn
	// levels on average.
	rngA := rand.New(rand.NewSource(42))
	rngB := rand.New(rand.NewSource(42))

	var sumSmallM, sumLargeM int
	const n = 5000
	for i := 0; i < n; i++ {
		sumSmallM += drawLevel(rngA, levelMult(2))
		sumLargeM += drawLevel(rngB, levelMult(32))
	}
	assert.Greater(t, sumSmallM, sumLargeM)
}
