package hnsw

// scalarEuclideanNegSquared is the portable fallback: correct for any n,
// used whenever the SIMD fastpath declines (unsupported CPU, or n not a
// multiple of the 32-float tile). a and b are assumed equal length; callers
// (EuclideanNegSquared) have already checked that.
func scalarEuclideanNegSquared(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return -sum
}
