package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/orthoime/medicase-be/types"
)

// Synthesizer merges the per-chunk extraction records into one coherent
// document-level result. Failure here is fatal for the run; no partial
// synthesis is returned.
type Synthesizer interface {
	Synthesize(ctx context.Context, records []types.ExtractionRecord) (*types.SynthesisOutput, error)
}

const synthesisPrompt = `You are a senior medical records analyst. The JSON below holds per-segment extraction results from consecutive page ranges of one medical record. Segments with an "error" field failed extraction; ignore their content but account for the gap they leave.

%s

Merge the segments into a single document-level analysis and answer with one JSON object matching this schema, nothing else:
%s

Rules:
- document_type: the single best classification of the whole document.
- Deduplicate entities and dates that appear in multiple segments, keeping the highest-confidence occurrence.
- clinical_dates must be calendar dates in YYYY-MM-DD form.
- inconsistencies: contradictions between segments (conflicting dates, incompatible diagnoses, contradictory findings). Do not resolve them.
- confidence: your overall confidence in the merged analysis, between 0 and 1.`

// GeminiSynthesizer runs the merge pass on a higher reasoning tier than
// the per-chunk extraction model.
type GeminiSynthesizer struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	schema     map[string]any
	logger     zerolog.Logger
	mu         sync.Mutex
}

func NewGeminiSynthesizer(apiKeys []string, modelName string, logger zerolog.Logger) (*GeminiSynthesizer, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	s := &GeminiSynthesizer{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
		schema:     BuildSynthesisJSONSchema(),
		logger:     logger.With().Str("component", "synthesizer").Logger(),
	}
	if err := s.initClient(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GeminiSynthesizer) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	s.model.ResponseMIMEType = "application/json"
	return nil
}

// generativeModel snapshots the current model so a rotation on one run
// never races a call on another.
func (s *GeminiSynthesizer) generativeModel() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *GeminiSynthesizer) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, records []types.ExtractionRecord) (*types.SynthesisOutput, error) {
	prompt, err := buildSynthesisPrompt(records, s.schema)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}

	resp, err := s.generativeModel().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		// Try rotating API key if there's an error
		if rotateErr := s.rotateAPIKey(); rotateErr != nil {
			return nil, &types.SynthesisError{Err: rotateErr}
		}
		resp, err = s.generativeModel().GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, &types.SynthesisError{Err: err}
		}
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}
	output, err := parseSynthesisOutput(s.schema, text)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}
	return output, nil
}

func buildSynthesisPrompt(records []types.ExtractionRecord, schema map[string]any) (string, error) {
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(synthesisPrompt, recordsJSON, schemaJSON), nil
}

func parseSynthesisOutput(schema map[string]any, raw string) (*types.SynthesisOutput, error) {
	payload := extractModelJSON(raw)
	if err := ValidateJSONAgainstSchema(schema, payload); err != nil {
		return nil, err
	}
	var output types.SynthesisOutput
	if err := json.Unmarshal(payload, &output); err != nil {
		return nil, err
	}
	normalizeDates(&output)
	return &output, nil
}

// normalizeDates trims any time component the models attach despite the
// prompt, keeping only the calendar date.
func normalizeDates(output *types.SynthesisOutput) {
	for i := range output.Dates {
		if idx := strings.IndexByte(output.Dates[i].Date, 'T'); idx > 0 {
			output.Dates[i].Date = output.Dates[i].Date[:idx]
		}
	}
}
