package service

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/orthoime/medicase-be/types"
)

// OpenAISynthesizer is the merge pass backed by an OpenAI-compatible
// endpoint, for deployments that run the synthesis tier on a local or
// self-hosted model.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	schema map[string]any
}

func NewOpenAISynthesizer(baseURL, apiKey, model string) *OpenAISynthesizer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAISynthesizer{
		client: client,
		model:  model,
		schema: BuildSynthesisJSONSchema(),
	}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, records []types.ExtractionRecord) (*types.SynthesisOutput, error) {
	prompt, err := buildSynthesisPrompt(records, s.schema)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &types.SynthesisError{Err: errors.New("no response generated")}
	}

	output, err := parseSynthesisOutput(s.schema, resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &types.SynthesisError{Err: err}
	}
	return output, nil
}
