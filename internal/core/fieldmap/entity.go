package fieldmap

import (
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// Candidate is a potential value for one form field before boosting
// and thresholding.
type Candidate struct {
	Source     string
	Value      any
	Confidence float64
	Method     domain.MappingMethod
}

type entityRule struct {
	keywords []string
	exclude  string
	category string
	baseConf float64
}

// Rule order is significant: the first matching family wins.
var entityRules = []entityRule{
	{keywords: []string{"email", "e_mail"}, category: domain.CategoryEmails, baseConf: 0.90},
	{keywords: []string{"phone", "tel", "mobile"}, category: domain.CategoryPhones, baseConf: 0.90},
	{keywords: []string{"name"}, exclude: "company", category: domain.CategoryNames, baseConf: 0.85},
	{keywords: []string{"date", "dob"}, category: domain.CategoryDates, baseConf: 0.80},
	{keywords: []string{"address", "street"}, category: domain.CategoryAddresses, baseConf: 0.75},
	{keywords: []string{"amount", "price", "cost"}, category: domain.CategoryCurrencies, baseConf: 0.70},
}

// MatchEntity finds the first keyword-family rule that fires for a
// normalized form field name and returns the first value of the
// associated entity list. Categories listed in consumed and empty
// categories are skipped. Returns nil when no rule fires.
func MatchEntity(normField string, entities domain.EntitySet, consumed map[string]bool) *Candidate {
	for _, rule := range entityRules {
		if rule.exclude != "" && strings.Contains(normField, rule.exclude) {
			continue
		}
		if !containsAny(normField, rule.keywords) {
			continue
		}
		if consumed[rule.category] {
			continue
		}
		values := entities.Category(rule.category)
		if len(values) == 0 {
			continue
		}
		return &Candidate{
			Source:     rule.category,
			Value:      values[0],
			Confidence: rule.baseConf,
			Method:     domain.MethodEntityPatternMatch,
		}
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
