// Package sqrt computes square roots and renders the results for the API
// and chat replies.
package sqrt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NegativeInputError reports an input outside the real square root domain.
// It carries the offending value for message formatting.
type NegativeInputError struct {
	Input float64
}

func (e *NegativeInputError) Error() string {
	return fmt.Sprintf("cannot compute square root of negative number: %s", Format(e.Input))
}

// Compute returns the non-negative square root of x, or *NegativeInputError
// when x < 0. IEEE-754 double semantics otherwise: Compute(0) = 0,
// Compute(+Inf) = +Inf.
func Compute(x float64) (float64, error) {
	if x < 0 {
		return 0, &NegativeInputError{Input: x}
	}
	return math.Sqrt(x), nil
}

// Format renders x as the shortest decimal string that round-trips, with
// integral values keeping a trailing ".0" (25 -> "25.0", 5 -> "5.0",
// 1.4142135623730951 unchanged). Go stays in decimal notation up to 1e21
// where Python's repr switches to scientific at 1e16, so very large values
// render as "100000000000000000.0" rather than "1e+17".
func Format(x float64) string {
	if math.IsInf(x, 1) {
		return "inf"
	}
	if math.IsInf(x, -1) {
		return "-inf"
	}
	if math.IsNaN(x) {
		return "nan"
	}
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
