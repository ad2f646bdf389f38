package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orthoime/medicase-be/types"
)

func TestQualityScoreNil(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(nil))
}

func TestQualityScoreEmptyOutput(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(&types.SynthesisOutput{}))
}

func TestQualityScoreConfidenceOnly(t *testing.T) {
	output := &types.SynthesisOutput{Confidence: 0.5}
	assert.Equal(t, 0.25, QualityScore(output))
}

func TestQualityScoreSaturated(t *testing.T) {
	output := &types.SynthesisOutput{
		Confidence: 1.0,
		Entities:   make([]types.MedicalEntity, 20),
		Dates:      make([]types.ClinicalDate, 5),
		Sections:   make([]types.DocumentSection, 8),
	}
	assert.Equal(t, 1.0, QualityScore(output))
}

func TestQualityScoreCountsCapAtSaturation(t *testing.T) {
	saturated := &types.SynthesisOutput{
		Confidence: 0.4,
		Entities:   make([]types.MedicalEntity, 20),
		Dates:      make([]types.ClinicalDate, 5),
		Sections:   make([]types.DocumentSection, 8),
	}
	oversaturated := &types.SynthesisOutput{
		Confidence: 0.4,
		Entities:   make([]types.MedicalEntity, 200),
		Dates:      make([]types.ClinicalDate, 50),
		Sections:   make([]types.DocumentSection, 80),
	}
	assert.Equal(t, QualityScore(saturated), QualityScore(oversaturated))
}

func TestQualityScorePartialCounts(t *testing.T) {
	output := &types.SynthesisOutput{
		Confidence: 0.8,
		Entities:   make([]types.MedicalEntity, 10),
		Dates:      make([]types.ClinicalDate, 3),
		Sections:   make([]types.DocumentSection, 4),
	}
	// 0.8*0.5 + 0.5*0.25 + 0.6*0.15 + 0.5*0.10, rounded to two decimals
	assert.InDelta(t, 0.67, QualityScore(output), 0.011)
}

func TestQualityScoreRoundsToTwoDecimals(t *testing.T) {
	output := &types.SynthesisOutput{
		Confidence: 0.123456,
	}
	score := QualityScore(output)
	assert.Equal(t, 0.06, score)
}
