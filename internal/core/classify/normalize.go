package classify

import (
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// categoryAliases maps raw classifier answers to canonical categories.
// An alias that resolves outside the known set still normalizes to
// UNKNOWN downstream.
var categoryAliases = map[string]string{
	"NATIONAL_ID":               string(domain.TypeEmiratesID),
	"EID":                       string(domain.TypeEmiratesID),
	"DRIVERS_LICENSE":           "ID_CARD",
	"RESIDENCE_VISA":            string(domain.TypeVisa),
	"ENTRY_PERMIT":              string(domain.TypeVisa),
	"UTILITY_BILL":              string(domain.TypeInvoice),
	"BILL":                      string(domain.TypeInvoice),
	"BANK_STMT":                 string(domain.TypeBankStatement),
	"EMPLOYMENT_CONTRACT":       string(domain.TypeContract),
	"AGREEMENT":                 string(domain.TypeContract),
	"MEMORANDUM_OF_ASSOCIATION": string(domain.TypeMOA),
	"COMMERCIAL_LICENSE":        string(domain.TypeTradeLicense),
	"LABOUR_CARD":               string(domain.TypeLaborCard),
	"WORK_PERMIT":               string(domain.TypeLaborCard),
}

// NormalizeCategory maps a raw category string onto the closed
// category set: uppercase, spaces to underscores, alias substitution,
// UNKNOWN for anything unrecognized.
func NormalizeCategory(raw string) domain.DocumentType {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.TypeUnknown
	}

	canonical := strings.ToUpper(trimmed)
	canonical = strings.ReplaceAll(canonical, " ", "_")
	if alias, ok := categoryAliases[canonical]; ok {
		canonical = alias
	}

	for _, known := range domain.KnownDocumentTypes() {
		if canonical == string(known) {
			return known
		}
	}
	return domain.TypeUnknown
}
