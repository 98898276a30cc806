// Package extract turns raw document text into structured
// ExtractedData: typed entities detected by pattern scanning, plus
// labeled "key: value" lines promoted to named fields.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/fieldmap"
)

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
	datePattern     = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`)
	currencyPattern = regexp.MustCompile(`(?i)\b(?:AED|USD|EUR|GBP|\$|€|£)\s?\d[\d,]*(?:\.\d{1,2})?\b`)
	numberPattern   = regexp.MustCompile(`\b\d{4,}\b`)
	addressPattern  = regexp.MustCompile(`(?im)^.*\b(?:street|st\.|road|rd\.|avenue|ave\.|p\.?o\.? box|building|floor)\b.*$`)
	namePattern     = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
	labeledLine     = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z0-9 ()./_\-]{1,40}?)\s*:\s*(\S.*?)\s*$`)
)

// Scanner produces ExtractedData from raw text. The method name it
// stamps lets merges distinguish OCR paths from degraded pattern-only
// runs.
type Scanner struct {
	method string
}

func NewScanner(method string) *Scanner {
	if method == "" {
		method = "text_scan"
	}
	return &Scanner{method: method}
}

// Scan never fails; empty text yields an ExtractedData with no fields
// and no entities.
func (s *Scanner) Scan(text string, confidence float64) domain.ExtractedData {
	data := domain.ExtractedData{
		Fields: make(map[string]any),
		Metadata: domain.ExtractionMetadata{
			Method:     s.method,
			Confidence: &confidence,
			Timestamp:  time.Now().UTC(),
		},
	}
	if strings.TrimSpace(text) == "" {
		return data
	}

	data.Entities = scanEntities(text)

	for _, match := range labeledLine.FindAllStringSubmatch(text, -1) {
		name := fieldmap.Normalize(match[1])
		if name == "" {
			continue
		}
		if _, exists := data.Fields[name]; exists {
			continue
		}
		data.Fields[name] = match[2]
	}

	return data
}

func scanEntities(text string) domain.EntitySet {
	var entities domain.EntitySet

	entities.Append(domain.CategoryEmails, dedupe(emailPattern.FindAllString(text, -1))...)
	entities.Append(domain.CategoryDates, dedupe(datePattern.FindAllString(text, -1))...)
	entities.Append(domain.CategoryCurrencies, dedupe(currencyPattern.FindAllString(text, -1))...)
	entities.Append(domain.CategoryAddresses, dedupe(trimAll(addressPattern.FindAllString(text, -1)))...)
	entities.Append(domain.CategoryNames, dedupe(namePattern.FindAllString(text, -1))...)

	// Phone candidates must not swallow dates or plain long numbers.
	var phones []string
	for _, m := range phonePattern.FindAllString(text, -1) {
		if datePattern.MatchString(m) {
			continue
		}
		if digits := countDigits(m); digits >= 7 && digits <= 15 {
			phones = append(phones, strings.TrimSpace(m))
		}
	}
	entities.Append(domain.CategoryPhones, dedupe(phones)...)

	var numbers []string
	for _, m := range numberPattern.FindAllString(text, -1) {
		numbers = append(numbers, m)
	}
	entities.Append(domain.CategoryNumbers, dedupe(numbers)...)

	return entities
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
