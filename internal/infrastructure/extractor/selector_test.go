package extractor

import (
	"context"
	"testing"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

type stubExtractor struct {
	text  string
	calls int
}

func (s *stubExtractor) Extract(context.Context, *domain.Document) (string, error) {
	s.calls++
	return s.text, nil
}

func TestSelectorRoutesByMimeType(t *testing.T) {
	pdf := &stubExtractor{text: "pdf"}
	sheet := &stubExtractor{text: "sheet"}
	plain := &stubExtractor{text: "plain"}
	sel := NewSelector(pdf, sheet, plain)

	cases := []struct {
		mime string
		want string
	}{
		{"application/pdf", "pdf"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "sheet"},
		{"application/vnd.ms-excel", "sheet"},
		{"text/plain", "plain"},
		{"text/plain; charset=utf-8", "plain"},
		{"application/json", "plain"},
	}
	for _, tc := range cases {
		text, err := sel.Extract(context.Background(), &domain.Document{MimeType: tc.mime})
		if err != nil {
			t.Fatalf("Extract(%s) error = %v", tc.mime, err)
		}
		if text != tc.want {
			t.Fatalf("Extract(%s) = %q, want %q", tc.mime, text, tc.want)
		}
	}
}

func TestSelectorRejectsUnknownMimeType(t *testing.T) {
	sel := NewSelector(&stubExtractor{}, &stubExtractor{}, &stubExtractor{})

	_, err := sel.Extract(context.Background(), &domain.Document{MimeType: "image/tiff"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}
