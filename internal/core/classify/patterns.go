package classify

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

type categoryPattern struct {
	docType  domain.DocumentType
	keywords []string
	patterns []*regexp.Regexp
}

// Keyword hits score 1, pattern hits score 2. A category needs a
// total of at least minCategoryScore to win.
var defaultPatterns = []categoryPattern{
	{
		docType:  domain.TypePassport,
		keywords: []string{"passport", "nationality", "place of birth", "date of issue", "issuing authority"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^P<[A-Z<]{2,}`),
		},
	},
	{
		docType:  domain.TypeEmiratesID,
		keywords: []string{"emirates id", "identity card", "united arab emirates", "id number"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b784-?\d{4}-?\d{7}-?\d\b`),
		},
	},
	{
		docType:  domain.TypeVisa,
		keywords: []string{"visa", "entry permit", "residence", "sponsor", "uid no"},
	},
	{
		docType:  domain.TypeBankStatement,
		keywords: []string{"statement", "opening balance", "closing balance", "iban", "account number"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bAE\d{21}\b`),
		},
	},
	{
		docType:  domain.TypeInvoice,
		keywords: []string{"invoice", "total due", "vat", "bill to", "subtotal"},
	},
	{
		docType:  domain.TypeTradeLicense,
		keywords: []string{"trade license", "license no", "commercial", "economic department", "legal form"},
	},
	{
		docType:  domain.TypeLaborCard,
		keywords: []string{"labour card", "labor card", "work permit", "ministry of human resources", "personal number"},
	},
	{
		docType:  domain.TypeContract,
		keywords: []string{"contract", "agreement", "hereinafter", "terms and conditions", "party of the first part"},
	},
	{
		docType:  domain.TypeMOA,
		keywords: []string{"memorandum of association", "articles of association", "share capital", "shareholders"},
	},
}

// PatternOverrides is the optional YAML document that extends the
// built-in keyword table per category.
type PatternOverrides struct {
	Categories []struct {
		Type     string   `yaml:"type"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// LoadOverrides reads extra classifier keywords from a YAML file.
// An empty path means no overrides.
func LoadOverrides(path string) (map[domain.DocumentType][]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern overrides: %w", err)
	}

	var doc PatternOverrides
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse pattern overrides: %w", err)
	}

	out := make(map[domain.DocumentType][]string, len(doc.Categories))
	for _, c := range doc.Categories {
		docType := NormalizeCategory(c.Type)
		if docType == domain.TypeUnknown {
			return nil, fmt.Errorf("pattern overrides: unknown category %q", c.Type)
		}
		out[docType] = append(out[docType], c.Keywords...)
	}
	return out, nil
}
