package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/orthoime/medicase-be/types"
)

func entityCategories() []string {
	return []string{
		types.EntityCategoryDiagnosis,
		types.EntityCategoryMedication,
		types.EntityCategoryProcedure,
		types.EntityCategorySymptom,
		types.EntityCategoryAnatomicalLocation,
		types.EntityCategoryVitalSign,
		types.EntityCategoryLabValue,
		types.EntityCategoryFinding,
	}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

func entityProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"text":        map[string]any{"type": "string", "minLength": 1},
				"category":    map[string]any{"type": "string", "enum": entityCategories()},
				"icd10_code":  map[string]any{"type": "string"},
				"confidence":  confidenceProp(),
				"source_text": map[string]any{"type": "string"},
			},
			"required": []string{"text", "category", "confidence"},
		},
	}
}

func dateProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"date":        map[string]any{"type": "string", "minLength": 1},
				"date_type":   map[string]any{"type": "string"},
				"confidence":  confidenceProp(),
				"source_text": map[string]any{"type": "string"},
			},
			"required": []string{"date", "date_type"},
		},
	}
}

func sectionProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"title":        map[string]any{"type": "string"},
				"section_type": map[string]any{"type": "string"},
				"content":      map[string]any{"type": "string"},
				"confidence":   confidenceProp(),
			},
			"required": []string{"title", "content"},
		},
	}
}

func tableProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"cells": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]any{
							"text":   map[string]any{"type": "string"},
							"row":    map[string]any{"type": "integer", "minimum": 0},
							"column": map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []string{"text", "row", "column"},
					},
				},
				"row_count":    map[string]any{"type": "integer", "minimum": 0},
				"column_count": map[string]any{"type": "integer", "minimum": 0},
				"confidence":   confidenceProp(),
			},
			"required": []string{"row_count", "column_count"},
		},
	}
}

// BuildExtractionJSONSchema is the structured output contract for one chunk
// extraction call. It is passed to the model in the prompt and enforced
// locally on the response.
func BuildExtractionJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_types":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"medical_entities": entityProp(),
			"clinical_dates":   dateProp(),
			"sections":         sectionProp(),
			"tables":           tableProp(),
			"key_findings":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"medical_entities", "clinical_dates"},
	}
}

// BuildSynthesisJSONSchema is the structured output contract for the
// document-level synthesis call.
func BuildSynthesisJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type":    map[string]any{"type": "string", "minLength": 1},
			"medical_entities": entityProp(),
			"clinical_dates":   dateProp(),
			"sections":         sectionProp(),
			"tables":           tableProp(),
			"key_findings":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"inconsistencies": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"description": map[string]any{"type": "string", "minLength": 1},
						"references":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []string{"description"},
				},
			},
			"confidence": confidenceProp(),
		},
		"required": []string{"document_type", "medical_entities", "clinical_dates", "confidence"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// extractModelJSON strips markdown code fences the models sometimes wrap
// around their JSON output.
func extractModelJSON(raw string) []byte {
	s := []byte(raw)
	start := bytes.IndexByte(s, '{')
	end := bytes.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
