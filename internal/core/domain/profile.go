package domain

import "time"

// FieldSource records which document last wrote a merged profile field
// and whether a human has since corrected it. A field with
// ManuallyEdited set must never be overwritten by a merge.
type FieldSource struct {
	DocumentID     string    `json:"document_id"`
	ExtractedAt    time.Time `json:"extracted_at"`
	ManuallyEdited bool      `json:"manually_edited"`
}

// Profile is one logical subject that multiple documents contribute to.
type Profile struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
