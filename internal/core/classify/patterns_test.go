package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

func TestLoadOverridesEmptyPath(t *testing.T) {
	overrides, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overrides != nil {
		t.Fatalf("expected nil overrides for empty path")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `categories:
  - type: invoice
    keywords: [proforma, purchase order]
  - type: trade license
    keywords: [dED]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	overrides, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := overrides[domain.TypeInvoice]; len(got) != 2 || got[0] != "proforma" {
		t.Fatalf("invoice keywords = %v", got)
	}
	if got := overrides[domain.TypeTradeLicense]; len(got) != 1 {
		t.Fatalf("trade license keywords = %v", got)
	}
}

func TestLoadOverridesRejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - type: receipt\n    keywords: [total]\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadOverrides(path); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	if _, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
