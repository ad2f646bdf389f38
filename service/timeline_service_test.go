package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orthoime/medicase-be/types"
)

func TestEventTypeForDate(t *testing.T) {
	tests := []struct {
		dateType  string
		eventType string
		severity  string
		milestone bool
	}{
		{types.DateTypeInjury, "injury", types.EventSeverityHigh, true},
		{types.DateTypeSurgery, "surgery", types.EventSeverityHigh, true},
		{types.DateTypeImaging, "imaging", types.EventSeverityMedium, false},
		{types.DateTypeTreatmentStart, "treatment", types.EventSeverityMedium, false},
		{types.DateTypeFollowUp, "follow_up", types.EventSeverityLow, false},
		{types.DateTypeService, "treatment", types.EventSeverityLow, false},
	}
	for _, tt := range tests {
		eventType, severity, milestone := eventTypeForDate(tt.dateType)
		assert.Equal(t, tt.eventType, eventType, tt.dateType)
		assert.Equal(t, tt.severity, severity, tt.dateType)
		assert.Equal(t, tt.milestone, milestone, tt.dateType)
	}
}

func TestTimelineIconFallsBackToCircle(t *testing.T) {
	assert.Equal(t, "alert-triangle", timelineIcon("injury"))
	assert.Equal(t, "scissors", timelineIcon("surgery"))
	assert.Equal(t, "circle", timelineIcon("something_else"))
}

func TestTimelineColorBySeverity(t *testing.T) {
	assert.Equal(t, "red", timelineColor(types.EventSeverityHigh))
	assert.Equal(t, "amber", timelineColor(types.EventSeverityMedium))
	assert.Equal(t, "gray", timelineColor(types.EventSeverityLow))
	assert.Equal(t, "gray", timelineColor(""))
}
