//go:build amd64

package hnsw

import (
	"golang.org/x/sys/cpu"

	"github.com/viterin/vek/vek32"
)

// simdTileSize is the lane-tile width the SIMD fastpath requires: 8 float32
// lanes per 256-bit AVX2 register times 4 independent accumulators used to
// hide FMA latency.
const simdTileSize = 32

// simdEuclideanNegSquared computes the negated squared L2 distance using
// vek32's AVX2+FMA dot-product kernel, which internally tiles in exactly the
// 8-lane/4-accumulator shape the fastpath requires, horizontal-summing once
// per call. ok is false when the CPU lacks AVX2+FMA or len(a) is not a
// multiple of the tile size, in which case the caller falls back to the
// scalar kernel.
//
// ‖a-b‖² = ‖a‖² - 2·a·b + ‖b‖², so three SIMD dot products and a negation
// give the mandated negated-squared-L2 kernel without a dedicated
// distance routine.
func simdEuclideanNegSquared(a, b []float32) (float32, bool) {
	if len(a) == 0 || len(a)%simdTileSize != 0 {
		return 0, false
	}
	if !cpu.X86.HasAVX2 || !cpu.X86.HasFMA {
		return 0, false
	}
	dot := vek32.Dot(a, b)
	normA := vek32.Dot(a, a)
	normB := vek32.Dot(b, b)
	return -(normA - 2*dot + normB), true
}
