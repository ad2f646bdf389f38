package service

import (
	"math"

	"github.com/orthoime/medicase-be/types"
)

// Quality score weights. Model confidence dominates; entity, date and
// section counts reward extraction richness with capped contributions.
const (
	weightConfidence = 0.5
	weightEntities   = 0.25
	weightDates      = 0.15
	weightSections   = 0.10

	entitySaturation  = 20
	dateSaturation    = 5
	sectionSaturation = 8
)

// QualityScore computes the completeness score of a synthesized result,
// rounded to two decimals. Counts saturate so a handful of rich pages
// cannot outweigh low model confidence.
func QualityScore(output *types.SynthesisOutput) float64 {
	if output == nil {
		return 0
	}
	score := output.Confidence * weightConfidence
	score += capRatio(len(output.Entities), entitySaturation) * weightEntities
	score += capRatio(len(output.Dates), dateSaturation) * weightDates
	score += capRatio(len(output.Sections), sectionSaturation) * weightSections
	return math.Round(score*100) / 100
}

func capRatio(count, saturation int) float64 {
	ratio := float64(count) / float64(saturation)
	if ratio > 1 {
		return 1
	}
	return ratio
}
