package ports

import (
	"context"
	"io"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, result domain.ClassificationResult) error
}

// ProfileRepository persists merged profile fields with per-field
// provenance. MergeFields must apply the manual-edit veto atomically:
// read current sources, decide, and write inside one transaction.
type ProfileRepository interface {
	EnsureProfile(ctx context.Context, profileID string) error
	GetFields(ctx context.Context, profileID string) (map[string]any, map[string]domain.FieldSource, error)
	MergeFields(ctx context.Context, profileID string, newFields map[string]any, documentID string) (bool, error)
	SetManualField(ctx context.Context, profileID, name string, value any, editedBy string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue carries reconcile requests between ingest and workers.
type MessageQueue interface {
	PublishReconcileRequested(ctx context.Context, documentID string) error
	SubscribeReconcileRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// AIClassifier is the external generative classification provider.
// Implementations return an error on any transport, parse, or quota
// failure; the caller owns the fallback policy.
type AIClassifier interface {
	Classify(ctx context.Context, text string, image []byte) (domain.AIClassification, error)
}
