// Package refmap joins the customer-division and dispatch-center reference
// tables onto the order dataset. Join keys are always coerced to one
// canonical numeric type first: the workbooks store the same customer number
// as text in one file and as a float in another, and comparing them raw
// silently matches nothing.
package refmap

import (
	"strconv"
	"strings"
)

// CoerceKey converts a raw identifier cell to the canonical int64 join key.
// Excel float round-trips ("30145.0") are tolerated; anything else that is
// not an integer is uncoercible and the caller treats the record as
// unmatched.
func CoerceKey(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, false
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}

	return 0, false
}
