// Package sheet extracts spreadsheet documents (bank statements,
// salary registers) into labeled text lines the field scanner can
// read: a two-column row becomes "label: value".
package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return "", fmt.Errorf("parse spreadsheet: %w", err)
	}
	defer workbook.Close()

	var out strings.Builder
	for _, sheetName := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheetName)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheetName, err)
		}
		for _, row := range rows {
			writeRow(&out, row)
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func writeRow(out *strings.Builder, row []string) {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	switch len(cells) {
	case 0:
	case 1:
		out.WriteString(cells[0])
		out.WriteString("\n")
	case 2:
		// Key-value row, the shape the field scanner promotes.
		out.WriteString(cells[0])
		out.WriteString(": ")
		out.WriteString(cells[1])
		out.WriteString("\n")
	default:
		out.WriteString(strings.Join(cells, " | "))
		out.WriteString("\n")
	}
}
