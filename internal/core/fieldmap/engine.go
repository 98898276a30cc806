package fieldmap

import (
	"sort"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

// MinConfidenceThreshold is the floor below which a candidate mapping
// is discarded rather than recorded.
const MinConfidenceThreshold = 0.5

type Engine struct {
	minConfidence float64
}

func NewEngine(minConfidence float64) *Engine {
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = MinConfidenceThreshold
	}
	return &Engine{minConfidence: minConfidence}
}

// MapFields maps extracted data onto form fields in the order the
// caller supplies them: earlier form fields get first claim, and a
// data field or entity category consumed by one form field is
// unavailable to all later ones. Data field names and entity
// categories share one source namespace, so no two mappings ever
// report the same source. This is a deliberate greedy heuristic, not
// an optimal assignment.
func (e *Engine) MapFields(data domain.ExtractedData, formFields []string) domain.MappingResult {
	dataNames := sortedFieldNames(data.Fields)

	consumed := make(map[string]bool, len(dataNames))

	mappings := make([]domain.FieldMapping, 0, len(formFields))
	unmappedForm := make([]string, 0)

	for _, formField := range formFields {
		normForm := Normalize(formField)

		candidate := e.bestCandidate(normForm, data, dataNames, consumed)
		if candidate == nil {
			unmappedForm = append(unmappedForm, formField)
			continue
		}

		confidence := BoostForType(normForm, candidate.Value, candidate.Confidence)
		if confidence < e.minConfidence {
			unmappedForm = append(unmappedForm, formField)
			continue
		}

		mappings = append(mappings, domain.FieldMapping{
			FormField:  formField,
			DataSource: candidate.Source,
			Value:      candidate.Value,
			Confidence: confidence,
			Method:     candidate.Method,
		})
		consumed[candidate.Source] = true
	}

	return domain.MappingResult{
		Mappings:           mappings,
		UnmappedFormFields: unmappedForm,
		UnmappedDataFields: unconsumedSources(data, dataNames, consumed),
		OverallConfidence:  meanConfidence(mappings),
	}
}

// bestCandidate compares the strongest direct field match against the
// entity-pattern match and keeps the higher confidence, preferring the
// direct match on ties.
func (e *Engine) bestCandidate(
	normForm string,
	data domain.ExtractedData,
	dataNames []string,
	consumed map[string]bool,
) *Candidate {
	var direct *Candidate
	for _, name := range dataNames {
		if consumed[name] {
			continue
		}
		score := Similarity(normForm, Normalize(name))
		if direct == nil || score > direct.Confidence {
			direct = &Candidate{
				Source:     name,
				Value:      data.Fields[name],
				Confidence: score,
				Method:     domain.MethodDirectFieldMatch,
			}
		}
	}

	entity := MatchEntity(normForm, data.Entities, consumed)

	switch {
	case direct == nil:
		return entity
	case entity == nil:
		return direct
	case entity.Confidence > direct.Confidence:
		return entity
	default:
		return direct
	}
}

func sortedFieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unconsumedSources(
	data domain.ExtractedData,
	dataNames []string,
	consumed map[string]bool,
) []string {
	out := make([]string, 0)
	for _, name := range dataNames {
		if !consumed[name] {
			out = append(out, name)
		}
	}
	for _, category := range domain.EntityCategories() {
		if consumed[category] {
			continue
		}
		if len(data.Entities.Category(category)) > 0 {
			out = append(out, category)
		}
	}
	return out
}

func meanConfidence(mappings []domain.FieldMapping) float64 {
	if len(mappings) == 0 {
		return 0
	}
	var total float64
	for _, m := range mappings {
		total += m.Confidence
	}
	return total / float64(len(mappings))
}
