package ports

import (
	"context"
	"io"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload
// orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, profileID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReconciler is the inbound contract for asynchronous
// document reconciliation.
type DocumentReconciler interface {
	ReconcileByID(ctx context.Context, documentID string) error
}

// FormMapper maps a merged profile onto a target form's field names.
type FormMapper interface {
	MapProfile(ctx context.Context, profileID string, formFields []string) (domain.MappingResult, error)
}
