package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/ports"
)

// IngestDocumentUseCase accepts an uploaded document for a profile,
// stores the raw bytes, and enqueues asynchronous reconciliation.
type IngestDocumentUseCase struct {
	repo     ports.DocumentRepository
	profiles ports.ProfileRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	profiles ports.ProfileRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:     repo,
		profiles: profiles,
		storage:  storage,
		queue:    queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	profileID, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	if profileID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("empty profile id"))
	}

	if err := uc.profiles.EnsureProfile(ctx, profileID); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		ProfileID:   profileID,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishReconcileRequested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish reconcile request: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
