// Package vector holds the small amount of linear algebra the ranker needs.
package vector

import "math"

// Epsilon is the floor applied to a vector's norm before dividing by it.
const Epsilon = 1e-12

// Normalize scales v to unit length and returns a new slice.
// A zero vector stays zero.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	norm := math.Max(Norm(v), Epsilon)

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = float32(float64(val) / norm)
	}
	return result
}

// Norm returns the Euclidean norm of v, accumulated in float64.
func Norm(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of a and b over their overlapping prefix.
// For unit vectors this is the cosine similarity.
func Dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
