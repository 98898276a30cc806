package merge

import (
	"testing"
	"time"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

func conf(v float64) *float64 { return &v }

func TestExtractedDataLastWriteWins(t *testing.T) {
	merged := ExtractedData([]domain.ExtractedData{
		{Fields: map[string]any{"x": 1}, Metadata: domain.ExtractionMetadata{Confidence: conf(80)}},
		{Fields: map[string]any{"x": 2}, Metadata: domain.ExtractionMetadata{Confidence: conf(90)}},
	})

	if merged.Fields["x"] != 2 {
		t.Fatalf("fields.x = %v, want 2 (last in order wins)", merged.Fields["x"])
	}
	if merged.Metadata.Confidence == nil || *merged.Metadata.Confidence != 85 {
		t.Fatalf("merged confidence = %v, want 85", merged.Metadata.Confidence)
	}
	if merged.Metadata.SourceCount != 2 {
		t.Fatalf("source count = %d, want 2", merged.Metadata.SourceCount)
	}
}

func TestExtractedDataEmptyInput(t *testing.T) {
	merged := ExtractedData(nil)

	if len(merged.Fields) != 0 {
		t.Fatalf("expected empty fields, got %v", merged.Fields)
	}
	for _, category := range domain.EntityCategories() {
		if len(merged.Entities.Category(category)) != 0 {
			t.Fatalf("expected empty %s, got %v", category, merged.Entities.Category(category))
		}
	}
	if merged.Metadata.Confidence == nil || *merged.Metadata.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", merged.Metadata.Confidence)
	}
	if merged.Metadata.SourceCount != 0 {
		t.Fatalf("source count = %d, want 0", merged.Metadata.SourceCount)
	}
}

func TestExtractedDataEntityDedupPreservesOrder(t *testing.T) {
	merged := ExtractedData([]domain.ExtractedData{
		{Entities: domain.EntitySet{Emails: []string{"a@b.com", "c@d.com"}}},
		{Entities: domain.EntitySet{Emails: []string{"c@d.com", "e@f.com", "a@b.com"}}},
	})

	want := []string{"a@b.com", "c@d.com", "e@f.com"}
	got := merged.Entities.Emails
	if len(got) != len(want) {
		t.Fatalf("emails = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emails[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractedDataSkipsMissingConfidence(t *testing.T) {
	merged := ExtractedData([]domain.ExtractedData{
		{Metadata: domain.ExtractionMetadata{Confidence: conf(60)}},
		{Metadata: domain.ExtractionMetadata{}},
	})

	if merged.Metadata.Confidence == nil || *merged.Metadata.Confidence != 60 {
		t.Fatalf("confidence = %v, want 60 (unscored source excluded, not zero)", merged.Metadata.Confidence)
	}
}

func TestToProfileManualEditVeto(t *testing.T) {
	now := time.Now().UTC()
	existing := map[string]any{"full_name": "Corrected Name"}
	sources := map[string]domain.FieldSource{
		"full_name": {DocumentID: "doc-1", ManuallyEdited: true},
	}

	updated, updatedSources, changed := ToProfile(existing, sources, map[string]any{"full_name": "OCR Name"}, "doc-2", now)

	if changed {
		t.Fatalf("manual edit must veto the overwrite")
	}
	if updated["full_name"] != "Corrected Name" {
		t.Fatalf("full_name = %v, want the human-corrected value", updated["full_name"])
	}
	if !updatedSources["full_name"].ManuallyEdited {
		t.Fatalf("manual-edit flag must survive the merge")
	}
}

func TestToProfileOverwritesOtherDocumentsField(t *testing.T) {
	now := time.Now().UTC()
	existing := map[string]any{"email": "old@b.com"}
	sources := map[string]domain.FieldSource{
		"email": {DocumentID: "doc-1"},
	}

	updated, updatedSources, changed := ToProfile(existing, sources, map[string]any{"email": "new@b.com"}, "doc-2", now)

	if !changed {
		t.Fatalf("expected a change")
	}
	if updated["email"] != "new@b.com" {
		t.Fatalf("email = %v, want new@b.com", updated["email"])
	}
	src := updatedSources["email"]
	if src.DocumentID != "doc-2" || src.ManuallyEdited || !src.ExtractedAt.Equal(now) {
		t.Fatalf("source = %+v, want doc-2 provenance", src)
	}
}

func TestToProfileSkipsEmptyCandidates(t *testing.T) {
	updated, _, changed := ToProfile(nil, nil, map[string]any{
		"a": nil,
		"b": "",
		"c": "value",
	}, "doc-1", time.Now().UTC())

	if !changed {
		t.Fatalf("expected a change for the non-empty candidate")
	}
	if len(updated) != 1 || updated["c"] != "value" {
		t.Fatalf("updated = %v, want only c", updated)
	}
}

func TestToProfileDoesNotMutateInputs(t *testing.T) {
	existing := map[string]any{"a": "old"}
	sources := map[string]domain.FieldSource{"a": {DocumentID: "doc-1"}}

	ToProfile(existing, sources, map[string]any{"a": "new"}, "doc-2", time.Now().UTC())

	if existing["a"] != "old" {
		t.Fatalf("existing snapshot mutated")
	}
	if sources["a"].DocumentID != "doc-1" {
		t.Fatalf("source snapshot mutated")
	}
}
