// Package cleaning removes records that do not belong in the analytical
// population, one named predicate at a time, keeping an audit trail of what
// each predicate excluded.
package cleaning

import "strings"

// placeholderSentinel is the bare hyphen the source system writes as a
// human-readable blank. It is not a missing value at the storage level, so a
// null-only check matches none of these fields.
const placeholderSentinel = "-"

// IsEffectivelyBlank reports whether an identifier field is blank in the
// business sense: truly absent, empty, whitespace-only, or the hyphen
// placeholder. Every blankness decision in the pipeline goes through this
// one predicate.
func IsEffectivelyBlank(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == placeholderSentinel
}
