package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoime/medicase-be/types"
)

func TestGeminiSynthesizerRotationKeepsModelAvailable(t *testing.T) {
	s, err := NewGeminiSynthesizer([]string{"key-a", "key-b"}, "gemini-1.5-pro", zerolog.Nop())
	require.NoError(t, err)

	for j := 0; j < 4; j++ {
		require.NoError(t, s.rotateAPIKey())
		assert.NotNil(t, s.generativeModel())
	}
}

func TestBuildSynthesisPromptEmbedsRecords(t *testing.T) {
	records := []types.ExtractionRecord{
		{ChunkIndex: 0, DocumentTypes: []string{"office visit note"}},
		{ChunkIndex: 1, Err: "extraction failed for chunk 1: timeout"},
	}
	prompt, err := buildSynthesisPrompt(records, BuildSynthesisJSONSchema())
	require.NoError(t, err)
	assert.True(t, strings.Contains(prompt, "office visit note"))
	assert.True(t, strings.Contains(prompt, "extraction failed for chunk 1"))
	assert.True(t, strings.Contains(prompt, "document_type"))
}

func TestParseSynthesisOutput(t *testing.T) {
	raw := `{
		"document_type": "operative report",
		"medical_entities": [
			{"text": "L4-L5 discectomy", "category": "procedure", "confidence": 0.95}
		],
		"clinical_dates": [
			{"date": "2024-06-01T00:00:00", "date_type": "surgery_date", "confidence": 0.9}
		],
		"confidence": 0.88
	}`
	output, err := parseSynthesisOutput(BuildSynthesisJSONSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, "operative report", output.DocumentType)
	require.Len(t, output.Entities, 1)
	assert.Equal(t, "L4-L5 discectomy", output.Entities[0].Text)
	// time component is stripped before the result leaves the synthesizer
	require.Len(t, output.Dates, 1)
	assert.Equal(t, "2024-06-01", output.Dates[0].Date)
	assert.Equal(t, 0.88, output.Confidence)
}

func TestParseSynthesisOutputWithFences(t *testing.T) {
	raw := "```json\n{\"document_type\": \"note\", \"medical_entities\": [], \"clinical_dates\": [], \"confidence\": 0.5}\n```"
	output, err := parseSynthesisOutput(BuildSynthesisJSONSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, "note", output.DocumentType)
}

func TestParseSynthesisOutputRejectsSchemaViolation(t *testing.T) {
	raw := `{"medical_entities": [], "clinical_dates": [], "confidence": 0.5}`
	_, err := parseSynthesisOutput(BuildSynthesisJSONSchema(), raw)
	assert.Error(t, err)
}

func TestExtractionRecordFailed(t *testing.T) {
	assert.False(t, types.ExtractionRecord{}.Failed())
	assert.True(t, types.ExtractionRecord{Err: "boom"}.Failed())
}
