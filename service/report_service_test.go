package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orthoime/medicase-be/types"
)

func TestEntitySummaryDeduplicatesCaseInsensitive(t *testing.T) {
	rows := []*types.EntityRow{
		{Text: "Lumbar Strain", Category: types.EntityCategoryDiagnosis, ICD10Code: "S39.012"},
		{Text: "lumbar strain", Category: types.EntityCategoryDiagnosis},
		{Text: "Ibuprofen", Category: types.EntityCategoryMedication},
	}
	summary := entitySummary(rows, types.EntityCategoryDiagnosis)
	assert.Equal(t, 1, strings.Count(strings.ToLower(summary), "lumbar strain"))
	assert.Contains(t, summary, "S39.012")
	assert.NotContains(t, summary, "Ibuprofen")
}

func TestEntitySummaryEmpty(t *testing.T) {
	summary := entitySummary(nil, types.EntityCategoryDiagnosis)
	assert.Equal(t, "None documented in the records reviewed.", summary)
}

func TestDateSummary(t *testing.T) {
	rows := []*types.DateRow{
		{DateValue: "2024-01-10", DateType: types.DateTypeInjury},
		{DateValue: "2024-03-15", DateType: types.DateTypeSurgery},
	}
	summary := dateSummary(rows)
	assert.Contains(t, summary, "- 2024-01-10: injury_date")
	assert.Contains(t, summary, "- 2024-03-15: surgery_date")
}

func TestDateSummaryEmpty(t *testing.T) {
	assert.Equal(t, "No clinical dates extracted from the records reviewed.", dateSummary(nil))
}
