package hnsw

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// levelMult returns 1 / ln(m), the normalization factor used by drawLevel.
func levelMult(m int) float32 {
	return 1 / math32.Log(float32(m))
}

// drawLevel draws u ~ Uniform(0,1) from rng and returns
// floor(-ln(u) * levelMult). Both logarithms run in float32 via
// github.com/chewxy/math32 so level assignment stays in the same precision
// as the vector arithmetic it feeds, rather than round-tripping through
// float64.
func drawLevel(rng *rand.Rand, levelMult float32) int {
	u := rng.Float32()
	// rand.Float32 returns [0,1); guard the degenerate u=0 case (ln(0) is
	// -Inf) by resampling from the open interval's nonzero edge.
	for u == 0 {
		u = rng.Float32()
	}
	return int(math32.Floor(-math32.Log(u) * levelMult))
}
