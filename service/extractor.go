package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/orthoime/medicase-be/types"
)

// ChunkExtractor runs structured extraction over one chunk. A failed call
// is reported inside the record, never as an error return, so the caller
// can keep the other chunks of the same document.
type ChunkExtractor interface {
	ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord
}

const extractionPrompt = `You are a medical records analyst reviewing pages %d-%d of a larger medical record.
Extract the following from the attached document and answer with a single JSON object matching this schema, nothing else:
%s

Rules:
- document_types: the kinds of records present on these pages (e.g. "office visit note", "MRI report", "operative report").
- medical_entities: every diagnosis, medication, procedure, symptom, anatomical location, vital sign, lab value and clinical finding, each with a confidence between 0 and 1.
- clinical_dates: every clinically significant date in YYYY-MM-DD form with its type.
- sections: the major narrative sections with their verbatim content.
- key_findings: the clinically decisive statements on these pages.
- Do not invent facts that are not on the pages.`

type GeminiExtractor struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	schema     map[string]any
	logger     zerolog.Logger
	mu         sync.Mutex
}

func NewGeminiExtractor(apiKeys []string, modelName string, logger zerolog.Logger) (*GeminiExtractor, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	e := &GeminiExtractor{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
		schema:     BuildExtractionJSONSchema(),
		logger:     logger.With().Str("component", "extractor").Logger(),
	}
	if err := e.initClient(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *GeminiExtractor) initClient() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(e.apiKeys[e.currentKey]))
	if err != nil {
		return err
	}
	e.client = client
	e.model = client.GenerativeModel(e.modelName)
	e.model.ResponseMIMEType = "application/json"
	return nil
}

// generativeModel snapshots the current model so concurrent chunk calls
// never read it while a rotation is swapping the client out.
func (e *GeminiExtractor) generativeModel() *genai.GenerativeModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model
}

func (e *GeminiExtractor) rotateAPIKey() error {
	e.mu.Lock()
	currentKey := (e.currentKey + 1) % len(e.apiKeys)
	e.currentKey = currentKey
	if err := e.client.Close(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	return e.initClient()
}

// ExtractChunk calls the extraction model on the chunk's pages. Any failure
// is folded into an error-tagged record carrying the chunk index.
func (e *GeminiExtractor) ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord {
	record, err := e.extract(ctx, chunk)
	if err != nil {
		extractionErr := &types.ExtractionError{ChunkIndex: chunk.Index, Err: err}
		e.logger.Warn().
			Int("chunk_index", chunk.Index).
			Int("pages", chunk.PageCount()).
			Err(err).
			Msg("chunk extraction failed")
		return types.ExtractionRecord{
			ChunkIndex: chunk.Index,
			Err:        extractionErr.Error(),
		}
	}
	record.ChunkIndex = chunk.Index
	return record
}

func (e *GeminiExtractor) extract(ctx context.Context, chunk types.Chunk) (types.ExtractionRecord, error) {
	var record types.ExtractionRecord

	schemaJSON, err := json.Marshal(e.schema)
	if err != nil {
		return record, err
	}
	prompt := fmt.Sprintf(extractionPrompt, chunk.FirstPage, chunk.LastPage, schemaJSON)
	parts := []genai.Part{
		genai.Blob{MIMEType: "application/pdf", Data: chunk.Data},
		genai.Text(prompt),
	}

	resp, err := e.generativeModel().GenerateContent(ctx, parts...)
	if err != nil {
		// Try rotating API key if there's an error
		if rotateErr := e.rotateAPIKey(); rotateErr != nil {
			return record, rotateErr
		}
		resp, err = e.generativeModel().GenerateContent(ctx, parts...)
		if err != nil {
			return record, err
		}
	}

	text, err := responseText(resp)
	if err != nil {
		return record, err
	}

	payload := extractModelJSON(text)
	if err := ValidateJSONAgainstSchema(e.schema, payload); err != nil {
		return record, err
	}
	if err := json.Unmarshal(payload, &record); err != nil {
		return record, err
	}
	return record, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}
	if content == "" {
		return "", errors.New("no text in response")
	}
	return content, nil
}
