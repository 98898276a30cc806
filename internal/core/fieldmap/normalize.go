// Package fieldmap maps extracted document data onto the named fields
// of a target form using normalized-name similarity, entity keyword
// heuristics, and type-shape confidence boosting.
package fieldmap

import "strings"

// Normalize canonicalizes a field identifier for comparison: lower
// case, every run of characters outside [a-z0-9] collapsed to a single
// underscore, no leading or trailing underscore.
func Normalize(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	lastUnderscore := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
