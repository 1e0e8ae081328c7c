package core

// EnsureLen resizes buf to n samples. The backing array is kept when it is
// large enough, so per-block scratch buffers stop allocating after warm-up.
// Contents are unspecified after a reallocation.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case cap(buf) < n:
		return make([]float64, n)
	default:
		return buf[:n]
	}
}
