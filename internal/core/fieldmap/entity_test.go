package fieldmap

import (
	"testing"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

func TestMatchEntityPicksFirstRuleAndFirstValue(t *testing.T) {
	entities := domain.EntitySet{
		Emails: []string{"a@b.com", "c@d.com"},
		Phones: []string{"+971501234567"},
	}

	cand := MatchEntity("applicant_email", entities, nil)
	if cand == nil {
		t.Fatalf("expected a candidate")
	}
	if cand.Source != domain.CategoryEmails {
		t.Fatalf("source = %q, want emails", cand.Source)
	}
	if cand.Value != "a@b.com" {
		t.Fatalf("value = %v, want first email", cand.Value)
	}
	if cand.Confidence != 0.90 {
		t.Fatalf("confidence = %v, want 0.90", cand.Confidence)
	}
	if cand.Method != domain.MethodEntityPatternMatch {
		t.Fatalf("method = %q, want entity pattern match", cand.Method)
	}
}

func TestMatchEntitySkipsEmptyCategory(t *testing.T) {
	if cand := MatchEntity("email_address", domain.EntitySet{}, nil); cand != nil {
		t.Fatalf("expected nil for empty entity list, got %+v", cand)
	}
}

func TestMatchEntityCompanyNameExcluded(t *testing.T) {
	entities := domain.EntitySet{Names: []string{"John Doe"}}

	if cand := MatchEntity("company_name", entities, nil); cand != nil {
		t.Fatalf("company_name must not match the names family, got %+v", cand)
	}
	if cand := MatchEntity("applicant_name", entities, nil); cand == nil {
		t.Fatalf("applicant_name should match the names family")
	}
}

func TestMatchEntityRespectsConsumedCategories(t *testing.T) {
	entities := domain.EntitySet{Emails: []string{"a@b.com"}}
	consumed := map[string]bool{domain.CategoryEmails: true}

	if cand := MatchEntity("email", entities, consumed); cand != nil {
		t.Fatalf("consumed category must be unavailable, got %+v", cand)
	}
}

func TestMatchEntityConfidenceTable(t *testing.T) {
	entities := domain.EntitySet{
		Names:      []string{"John"},
		Emails:     []string{"a@b.com"},
		Phones:     []string{"0501234567"},
		Dates:      []string{"01/02/2020"},
		Addresses:  []string{"12 Main St"},
		Currencies: []string{"AED 100"},
	}
	cases := []struct {
		field string
		conf  float64
	}{
		{"contact_phone", 0.90},
		{"mobile", 0.90},
		{"birth_date", 0.80},
		{"dob", 0.80},
		{"street_address", 0.75},
		{"total_amount", 0.70},
		{"price", 0.70},
	}
	for _, tc := range cases {
		cand := MatchEntity(tc.field, entities, nil)
		if cand == nil {
			t.Fatalf("expected candidate for %q", tc.field)
		}
		if cand.Confidence != tc.conf {
			t.Fatalf("%q confidence = %v, want %v", tc.field, cand.Confidence, tc.conf)
		}
	}
}

func TestBoostForType(t *testing.T) {
	cases := []struct {
		field string
		value any
		in    float64
		want  float64
	}{
		{"email_address", "a@b.com", 0.9, 1.0},
		{"email_address", "not-an-email", 0.9, 0.9},
		{"phone_number", "+971 50 123 4567", 0.7, 0.84},
		{"telephone", "abc", 0.7, 0.7},
		{"birth_date", "01/02/1990", 0.8, 0.92},
		{"birth_date", "January 2 1990", 0.8, 0.8},
		{"zip_code", "12345", 0.6, 0.72},
		{"postal_code", "12345-6789", 0.6, 0.72},
		{"zip_code", "1234", 0.6, 0.6},
		{"notes", "anything", 0.55, 0.55},
	}
	for _, tc := range cases {
		if got := BoostForType(tc.field, tc.value, tc.in); !almostEqual(got, tc.want) {
			t.Fatalf("BoostForType(%q, %v, %v) = %v, want %v", tc.field, tc.value, tc.in, got, tc.want)
		}
	}
}
