// Package jsnum formats and recognizes numbers the way ECMAScript does.
// Property keys are strings at run time; a key is numeric only when it is
// the canonical string of some number, so formatting must match
// Number.prototype.toString exactly.
package jsnum

import (
	"math"
	"strconv"
	"strings"
)

// String returns the ECMAScript Number::toString(10) form of f.
func String(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// -0 prints as "0" as well.
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-tripping digits: "d.ddddde±x".
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expText, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expText)

	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		expSign := "+"
		if n-1 < 0 {
			expSign = "-"
		}
		absExp := n - 1
		if absExp < 0 {
			absExp = -absExp
		}
		if k == 1 {
			out = digits + "e" + expSign + strconv.Itoa(absExp)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(absExp)
		}
	}
	return sign + out
}

// CanonicalNumeric reports whether s is the canonical string of a finite
// number and returns that number. "6" and "0.5" are canonical; "06",
// "6.0", "1e3" and "" are not.
func CanonicalNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if String(f) != s {
		return 0, false
	}
	return f, true
}
