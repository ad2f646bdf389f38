package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

// timelineIcon maps an event type to the icon the frontend renders.
func timelineIcon(eventType string) string {
	switch eventType {
	case "injury":
		return "alert-triangle"
	case "surgery":
		return "scissors"
	case "imaging":
		return "scan"
	case "treatment":
		return "stethoscope"
	case "examination":
		return "clipboard-check"
	case "follow_up":
		return "calendar"
	default:
		return "circle"
	}
}

func timelineColor(severity string) string {
	switch severity {
	case types.EventSeverityHigh:
		return "red"
	case types.EventSeverityMedium:
		return "amber"
	default:
		return "gray"
	}
}

// eventTypeForDate maps a clinical date type from document analysis onto a
// timeline event type.
func eventTypeForDate(dateType string) (eventType, severity string, milestone bool) {
	switch dateType {
	case types.DateTypeInjury:
		return "injury", types.EventSeverityHigh, true
	case types.DateTypeSurgery:
		return "surgery", types.EventSeverityHigh, true
	case types.DateTypeImaging:
		return "imaging", types.EventSeverityMedium, false
	case types.DateTypeTreatmentStart, types.DateTypeTreatmentEnd:
		return "treatment", types.EventSeverityMedium, false
	case types.DateTypeFollowUp:
		return "follow_up", types.EventSeverityLow, false
	default:
		return "treatment", types.EventSeverityLow, false
	}
}

type TimelineService struct {
	timeline   repository.TimelineRepo
	extraction repository.ExtractionRepo
	logger     zerolog.Logger
}

func NewTimelineService(timeline repository.TimelineRepo, extraction repository.ExtractionRepo, logger zerolog.Logger) *TimelineService {
	return &TimelineService{
		timeline:   timeline,
		extraction: extraction,
		logger:     logger.With().Str("component", "timeline").Logger(),
	}
}

func (s *TimelineService) AddEvent(ctx context.Context, caseID string, req types.AddTimelineEventRequest) (*types.TimelineEvent, error) {
	severity := req.Severity
	if severity == "" {
		severity = types.EventSeverityLow
	}
	event := &types.TimelineEvent{
		ID:          uuid.NewString(),
		CaseID:      caseID,
		EventDate:   req.EventDate,
		EventType:   req.EventType,
		Title:       req.Title,
		Description: req.Description,
		SourceType:  types.EventSourceManual,
		Severity:    severity,
		IsMilestone: req.IsMilestone,
		Icon:        timelineIcon(req.EventType),
		Color:       timelineColor(severity),
		CreateAt:    time.Now().Unix(),
	}
	if err := s.timeline.AddEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *TimelineService) ListEvents(ctx context.Context, caseID string, eventTypes []string, milestonesOnly bool) ([]*types.TimelineEvent, error) {
	return s.timeline.ListEventsByCase(ctx, caseID, eventTypes, milestonesOnly)
}

func (s *TimelineService) DeleteEvent(ctx context.Context, id string) error {
	return s.timeline.DeleteEvent(ctx, id)
}

// RebuildFromDocuments projects the case's extracted clinical dates onto
// the timeline. Existing document-sourced events for the same date and
// type are not deduplicated; callers rebuild onto a fresh case timeline
// or accept appends.
func (s *TimelineService) RebuildFromDocuments(ctx context.Context, caseID string) ([]*types.TimelineEvent, error) {
	dates, err := s.extraction.ListDatesByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	events := make([]*types.TimelineEvent, 0, len(dates))
	for _, d := range dates {
		eventType, severity, milestone := eventTypeForDate(d.DateType)
		event := &types.TimelineEvent{
			ID:          uuid.NewString(),
			CaseID:      caseID,
			EventDate:   d.DateValue,
			EventType:   eventType,
			Title:       d.DateType,
			Description: d.SourceText,
			SourceType:  types.EventSourceDocument,
			SourceID:    d.DocumentID,
			Severity:    severity,
			IsMilestone: milestone,
			Icon:        timelineIcon(eventType),
			Color:       timelineColor(severity),
			CreateAt:    now,
		}
		if err := s.timeline.AddEvent(ctx, event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	s.logger.Info().Str("case_id", caseID).Int("events", len(events)).Msg("timeline rebuilt from documents")
	return events, nil
}
