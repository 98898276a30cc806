// Package merge combines partial extraction results from multiple
// source documents into one logical profile, protecting fields a human
// has corrected.
package merge

import (
	"time"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// MergedMethod marks extraction metadata produced by combining
// several sources.
const MergedMethod = "multi_source"

// ExtractedData overlays the fields of each source in the given order
// (a later source overwrites a same-named field from an earlier one)
// and concatenates entity lists with first-occurrence deduplication.
// Merged confidence is the mean over sources that report one.
func ExtractedData(sources []domain.ExtractedData) domain.ExtractedData {
	fields := make(map[string]any)
	var entities domain.EntitySet

	for _, category := range domain.EntityCategories() {
		var combined []string
		for _, src := range sources {
			combined = append(combined, src.Entities.Category(category)...)
		}
		entities.Append(category, dedupeOrdered(combined)...)
	}

	for _, src := range sources {
		for name, value := range src.Fields {
			fields[name] = value
		}
	}

	return domain.ExtractedData{
		Fields:   fields,
		Entities: entities,
		Metadata: domain.ExtractionMetadata{
			Method:      MergedMethod,
			Confidence:  meanConfidence(sources),
			Timestamp:   time.Now().UTC(),
			SourceCount: len(sources),
		},
	}
}

// ToProfile applies candidate fields from one document to an existing
// profile snapshot. A field whose source record is marked manually
// edited is never changed, regardless of the candidate value; nil and
// empty-string candidates are skipped. Inputs are not mutated. The
// returned flag tells the caller whether a persistence write is
// needed.
func ToProfile(
	existing map[string]any,
	sources map[string]domain.FieldSource,
	newFields map[string]any,
	documentID string,
	now time.Time,
) (map[string]any, map[string]domain.FieldSource, bool) {
	updated := make(map[string]any, len(existing)+len(newFields))
	for name, value := range existing {
		updated[name] = value
	}
	updatedSources := make(map[string]domain.FieldSource, len(sources)+len(newFields))
	for name, src := range sources {
		updatedSources[name] = src
	}

	changed := false
	for name, value := range newFields {
		if src, ok := updatedSources[name]; ok && src.ManuallyEdited {
			continue
		}
		if value == nil || value == "" {
			continue
		}
		updated[name] = value
		updatedSources[name] = domain.FieldSource{
			DocumentID:  documentID,
			ExtractedAt: now,
		}
		changed = true
	}

	return updated, updatedSources, changed
}

// dedupeOrdered removes duplicates while preserving first-occurrence
// order.
func dedupeOrdered(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func meanConfidence(sources []domain.ExtractedData) *float64 {
	var total float64
	var counted int
	for _, src := range sources {
		if src.Metadata.Confidence == nil {
			continue
		}
		total += *src.Metadata.Confidence
		counted++
	}

	mean := 0.0
	if counted > 0 {
		mean = total / float64(counted)
	}
	return &mean
}
