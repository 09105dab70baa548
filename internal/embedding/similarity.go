package embedding

import "math"

// Cosine returns the cosine similarity of a and b computed in float64. It
// returns 0 when the lengths differ or either vector has zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Usable reports whether v can take part in ranking: it must be non-empty,
// not the sentinel, and have a non-zero norm.
func Usable(v []float32) bool {
	if len(v) == 0 || IsSentinel(v) {
		return false
	}
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}
