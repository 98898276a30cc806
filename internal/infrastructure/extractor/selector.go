// Package extractor routes a document to the text extractor that
// understands its MIME type.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/ports"
)

type Selector struct {
	pdf   ports.TextExtractor
	sheet ports.TextExtractor
	plain ports.TextExtractor
}

func NewSelector(pdf, sheet, plain ports.TextExtractor) *Selector {
	return &Selector{pdf: pdf, sheet: sheet, plain: plain}
}

func (s *Selector) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	target := s.pick(doc.MimeType)
	if target == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "select extractor",
			fmt.Errorf("unsupported mime type %q", doc.MimeType))
	}
	return target.Extract(ctx, doc)
}

func (s *Selector) pick(mimeType string) ports.TextExtractor {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}

	switch {
	case mt == "application/pdf":
		return s.pdf
	case mt == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		mt == "application/vnd.ms-excel":
		return s.sheet
	case strings.HasPrefix(mt, "text/"), mt == "application/json", mt == "application/xml":
		return s.plain
	default:
		return nil
	}
}
