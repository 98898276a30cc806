package genai

import (
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

func buildClassificationPrompt(text string) string {
	const maxSnippet = 4000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	var categories strings.Builder
	for idx, docType := range domain.KnownDocumentTypes() {
		if idx > 0 {
			categories.WriteString(", ")
		}
		categories.WriteString(string(docType))
	}

	return `You are a document type classifier.
Return strict JSON object with keys:
document_type (one of: ` + categories.String() + `),
confidence (number from 0 to 100).
No markdown, no extra keys.

Document:
` + snippet
}
