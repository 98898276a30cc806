package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

type ingestRepoFake struct {
	created *domain.Document
	err     error
}

func (f *ingestRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return errors.New("not implemented")
}
func (f *ingestRepoFake) SaveClassification(context.Context, string, domain.ClassificationResult) error {
	return errors.New("not implemented")
}

type ingestProfilesFake struct {
	ensured string
	err     error
}

func (f *ingestProfilesFake) EnsureProfile(_ context.Context, profileID string) error {
	if f.err != nil {
		return f.err
	}
	f.ensured = profileID
	return nil
}

func (f *ingestProfilesFake) GetFields(context.Context, string) (map[string]any, map[string]domain.FieldSource, error) {
	return nil, nil, errors.New("not implemented")
}
func (f *ingestProfilesFake) MergeFields(context.Context, string, map[string]any, string) (bool, error) {
	return false, errors.New("not implemented")
}
func (f *ingestProfilesFake) SetManualField(context.Context, string, string, any, string) error {
	return errors.New("not implemented")
}

type ingestStorageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *ingestStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *ingestStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type ingestQueueFake struct {
	documentID string
	err        error
}

func (f *ingestQueueFake) PublishReconcileRequested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *ingestQueueFake) SubscribeReconcileRequested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestIngestUploadSuccess(t *testing.T) {
	repo := &ingestRepoFake{}
	profiles := &ingestProfilesFake{}
	storage := &ingestStorageFake{}
	queue := &ingestQueueFake{}
	uc := NewIngestDocumentUseCase(repo, profiles, storage, queue)

	doc, err := uc.Upload(context.Background(), "prof-1", "passport scan 1.pdf", "application/pdf", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.ProfileID != "prof-1" {
		t.Fatalf("expected profile id prof-1, got %s", doc.ProfileID)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", doc.Status)
	}
	if profiles.ensured != "prof-1" {
		t.Fatalf("expected EnsureProfile call, got %q", profiles.ensured)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.documentID != doc.ID {
		t.Fatalf("expected queued doc id %s, got %s", doc.ID, queue.documentID)
	}
	if !strings.Contains(storage.savedKey, "_passport_scan_1.pdf") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("expected saved body hello, got %s", storage.savedBody)
	}
}

func TestIngestUploadRequiresProfile(t *testing.T) {
	uc := NewIngestDocumentUseCase(&ingestRepoFake{}, &ingestProfilesFake{}, &ingestStorageFake{}, &ingestQueueFake{})

	_, err := uc.Upload(context.Background(), "", "scan.pdf", "application/pdf", bytes.NewBufferString("hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestIngestUploadQueueError(t *testing.T) {
	queue := &ingestQueueFake{err: errors.New("queue down")}
	uc := NewIngestDocumentUseCase(&ingestRepoFake{}, &ingestProfilesFake{}, &ingestStorageFake{}, queue)

	_, err := uc.Upload(context.Background(), "prof-1", "scan.pdf", "application/pdf", bytes.NewBufferString("hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish reconcile request") {
		t.Fatalf("expected publish error, got %v", err)
	}
}
