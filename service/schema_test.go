package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExtractionJSON = `{
	"document_types": ["office visit note"],
	"medical_entities": [
		{"text": "lumbar strain", "category": "diagnosis", "icd10_code": "S39.012", "confidence": 0.92}
	],
	"clinical_dates": [
		{"date": "2024-03-15", "date_type": "service_date", "confidence": 0.9}
	],
	"key_findings": ["positive straight leg raise"]
}`

func TestValidateExtractionOutput(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(validExtractionJSON)))
}

func TestValidateExtractionRejectsMissingRequired(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	err := ValidateJSONAgainstSchema(schema, []byte(`{"document_types": ["note"]}`))
	assert.Error(t, err)
}

func TestValidateExtractionRejectsUnknownCategory(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	payload := `{
		"medical_entities": [{"text": "x", "category": "horoscope", "confidence": 0.5}],
		"clinical_dates": []
	}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(payload)))
}

func TestValidateExtractionRejectsUnknownField(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	payload := `{"medical_entities": [], "clinical_dates": [], "invented_field": true}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(payload)))
}

func TestValidateSynthesisOutput(t *testing.T) {
	schema := BuildSynthesisJSONSchema()
	payload := `{
		"document_type": "MRI report",
		"medical_entities": [],
		"clinical_dates": [],
		"inconsistencies": [{"description": "conflicting injury dates"}],
		"confidence": 0.85
	}`
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(payload)))
}

func TestValidateSynthesisRejectsConfidenceOutOfRange(t *testing.T) {
	schema := BuildSynthesisJSONSchema()
	payload := `{
		"document_type": "MRI report",
		"medical_entities": [],
		"clinical_dates": [],
		"confidence": 1.5
	}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(payload)))
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte("not json")))
}

func TestExtractModelJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"document_type\": \"note\"}\n```"
	got := extractModelJSON(raw)
	require.JSONEq(t, `{"document_type": "note"}`, string(got))
}

func TestExtractModelJSONPassthrough(t *testing.T) {
	raw := `{"a": 1}`
	assert.Equal(t, raw, string(extractModelJSON(raw)))
}
