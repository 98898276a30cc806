package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded    DocumentStatus = "uploaded"
	StatusProcessing  DocumentStatus = "processing"
	StatusReady       DocumentStatus = "ready"
	StatusNeedsReview DocumentStatus = "needs_review"
	StatusFailed      DocumentStatus = "failed"
)

type Document struct {
	ID           string         `json:"id"`
	ProfileID    string         `json:"profile_id"`
	Filename     string         `json:"filename"`
	MimeType     string         `json:"mime_type"`
	StoragePath  string         `json:"storage_path"`
	DocumentType DocumentType   `json:"document_type,omitempty"`
	Language     string         `json:"language,omitempty"`
	Confidence   float64        `json:"confidence,omitempty"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
