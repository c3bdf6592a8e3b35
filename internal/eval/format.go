package eval

import (
	"math"
	"strconv"
)

// FormatResult renders a result the way it is shown to users: plain
// decimal notation, switching to exponent form only for very large or very
// small magnitudes.
func FormatResult(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
