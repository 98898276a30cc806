package fieldmap

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneShape = regexp.MustCompile(`^\+?[\d\s().\-]{7,}$`)
	dateShape  = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{2,4}$`)
	zipShape   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// BoostForType multiplies a candidate's confidence by a fixed factor
// when the stringified value's shape matches the type the form field
// name implies, capped at 1.0. Fields without a recognized type pass
// through unchanged.
func BoostForType(normField string, value any, confidence float64) float64 {
	text := strings.TrimSpace(fmt.Sprint(value))

	factor := 1.0
	switch {
	case strings.Contains(normField, "email") && emailShape.MatchString(text):
		factor = 1.20
	case (strings.Contains(normField, "phone") || strings.Contains(normField, "tel")) && phoneShape.MatchString(text):
		factor = 1.20
	case strings.Contains(normField, "date") && dateShape.MatchString(text):
		factor = 1.15
	case (strings.Contains(normField, "zip") || strings.Contains(normField, "postal")) && zipShape.MatchString(text):
		factor = 1.20
	}

	boosted := confidence * factor
	if boosted > 1.0 {
		boosted = 1.0
	}
	return boosted
}
