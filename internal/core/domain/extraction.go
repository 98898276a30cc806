package domain

import "time"

// Entity category names as they appear in extraction output and
// mapping data-source identifiers.
const (
	CategoryNames      = "names"
	CategoryEmails     = "emails"
	CategoryPhones     = "phones"
	CategoryDates      = "dates"
	CategoryAddresses  = "addresses"
	CategoryNumbers    = "numbers"
	CategoryCurrencies = "currencies"
)

// EntityCategories returns every entity category in canonical order.
func EntityCategories() []string {
	return []string{
		CategoryNames,
		CategoryEmails,
		CategoryPhones,
		CategoryDates,
		CategoryAddresses,
		CategoryNumbers,
		CategoryCurrencies,
	}
}

// EntitySet holds typed entity values detected in one document.
type EntitySet struct {
	Names      []string `json:"names"`
	Emails     []string `json:"emails"`
	Phones     []string `json:"phones"`
	Dates      []string `json:"dates"`
	Addresses  []string `json:"addresses"`
	Numbers    []string `json:"numbers"`
	Currencies []string `json:"currencies"`
}

// Category returns the value list for a category name, nil for an
// unknown category.
func (s EntitySet) Category(name string) []string {
	switch name {
	case CategoryNames:
		return s.Names
	case CategoryEmails:
		return s.Emails
	case CategoryPhones:
		return s.Phones
	case CategoryDates:
		return s.Dates
	case CategoryAddresses:
		return s.Addresses
	case CategoryNumbers:
		return s.Numbers
	case CategoryCurrencies:
		return s.Currencies
	default:
		return nil
	}
}

// Append adds values to a category; unknown categories are ignored.
func (s *EntitySet) Append(name string, values ...string) {
	switch name {
	case CategoryNames:
		s.Names = append(s.Names, values...)
	case CategoryEmails:
		s.Emails = append(s.Emails, values...)
	case CategoryPhones:
		s.Phones = append(s.Phones, values...)
	case CategoryDates:
		s.Dates = append(s.Dates, values...)
	case CategoryAddresses:
		s.Addresses = append(s.Addresses, values...)
	case CategoryNumbers:
		s.Numbers = append(s.Numbers, values...)
	case CategoryCurrencies:
		s.Currencies = append(s.Currencies, values...)
	}
}

// ExtractionMetadata describes how an ExtractedData was produced.
// Confidence is on a 0-100 scale; nil means the extraction step did not
// report one, which merge treats differently from zero.
type ExtractionMetadata struct {
	Method      string    `json:"extraction_method"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	SourceCount int       `json:"source_count,omitempty"`
}

// ExtractedData is the structured output of extracting labeled fields
// and typed entities from one source document. Immutable once produced.
type ExtractedData struct {
	Fields   map[string]any     `json:"fields"`
	Entities EntitySet          `json:"entities"`
	Metadata ExtractionMetadata `json:"metadata"`
}
