package baseline

import (
	"math"
	"time"

	"quill/internal/value"
)

func ipow(base, exp float64) float64 {
	return math.Pow(base, exp)
}

// sleepFor blocks the caller for v seconds (fractions allowed).
// Non-numeric or non-positive operands are a no-op.
func sleepFor(v value.Value) {
	n, ok := v.ToNumber()
	if !ok || n <= 0 {
		return
	}
	time.Sleep(time.Duration(n * float64(time.Second)))
}
