package domain

type MappingMethod string

const (
	MethodDirectFieldMatch   MappingMethod = "direct_field_match"
	MethodEntityPatternMatch MappingMethod = "entity_pattern_match"
)

// FieldMapping pairs one target form field with the data field or
// entity category that supplied its value. Confidence is on a 0-1
// scale and is always at or above the acceptance threshold.
type FieldMapping struct {
	FormField  string        `json:"form_field"`
	DataSource string        `json:"data_source"`
	Value      any           `json:"value"`
	Confidence float64       `json:"confidence"`
	Method     MappingMethod `json:"mapping_method"`
}

// MappingResult is the outcome of mapping one ExtractedData onto a
// target form. Each data field and entity category appears in at most
// one mapping.
type MappingResult struct {
	Mappings           []FieldMapping `json:"mappings"`
	UnmappedFormFields []string       `json:"unmapped_form_fields"`
	UnmappedDataFields []string       `json:"unmapped_data_fields"`
	OverallConfidence  float64        `json:"overall_confidence"`
}
