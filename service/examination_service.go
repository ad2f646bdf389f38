package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

type ExaminationService struct {
	exams    repository.ExaminationRepo
	timeline repository.TimelineRepo
	logger   zerolog.Logger
}

func NewExaminationService(exams repository.ExaminationRepo, timeline repository.TimelineRepo, logger zerolog.Logger) *ExaminationService {
	return &ExaminationService{
		exams:    exams,
		timeline: timeline,
		logger:   logger.With().Str("component", "examinations").Logger(),
	}
}

func (s *ExaminationService) CreateExamination(ctx context.Context, physicianID string, req types.CreateExaminationRequest) (*types.Examination, error) {
	now := time.Now().Unix()
	exam := &types.Examination{
		ID:                   uuid.NewString(),
		CaseID:               req.CaseID,
		ExamDate:             req.ExamDate,
		ExamLocation:         req.ExamLocation,
		PatientDemeanor:      req.PatientDemeanor,
		Reliability:          req.Reliability,
		PhysicianNotes:       req.PhysicianNotes,
		ExaminingPhysicianID: physicianID,
		Status:               types.ExamStatusInProgress,
		CreateAt:             now,
		UpdateAt:             now,
	}
	if err := s.exams.CreateExamination(ctx, exam); err != nil {
		return nil, err
	}
	s.logger.Info().Str("examination_id", exam.ID).Str("case_id", exam.CaseID).Msg("examination started")
	return exam, nil
}

// GetDetail loads the examination with all recorded measurements.
func (s *ExaminationService) GetDetail(ctx context.Context, id string) (*types.ExaminationDetail, error) {
	exam, err := s.exams.GetExamination(ctx, id)
	if err != nil {
		return nil, err
	}
	rom, err := s.exams.ListROMMeasurements(ctx, id)
	if err != nil {
		return nil, err
	}
	strength, err := s.exams.ListStrengthTests(ctx, id)
	if err != nil {
		return nil, err
	}
	special, err := s.exams.ListSpecialTests(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.ExaminationDetail{
		Examination:     *exam,
		ROMMeasurements: rom,
		StrengthTests:   strength,
		SpecialTests:    special,
	}, nil
}

func (s *ExaminationService) ListByCase(ctx context.Context, caseID string) ([]*types.Examination, error) {
	return s.exams.ListExaminationsByCase(ctx, caseID)
}

func (s *ExaminationService) openExamination(ctx context.Context, id string) (*types.Examination, error) {
	exam, err := s.exams.GetExamination(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status == types.ExamStatusCompleted {
		return nil, ErrExaminationClosed
	}
	return exam, nil
}

func (s *ExaminationService) RecordROM(ctx context.Context, examinationID string, req types.RecordROMRequest) (*types.ROMMeasurement, error) {
	if _, err := s.openExamination(ctx, examinationID); err != nil {
		return nil, err
	}
	m := &types.ROMMeasurement{
		ID:             uuid.NewString(),
		ExaminationID:  examinationID,
		BodyRegion:     req.BodyRegion,
		Joint:          req.Joint,
		Movement:       req.Movement,
		Side:           req.Side,
		ActiveROM:      req.ActiveROM,
		PassiveROM:     req.PassiveROM,
		NormalROM:      req.NormalROM,
		PainOnMovement: req.PainOnMovement,
		PainLevel:      req.PainLevel,
		EndFeel:        req.EndFeel,
		Notes:          req.Notes,
	}
	if err := s.exams.AddROMMeasurement(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ExaminationService) RecordStrength(ctx context.Context, examinationID string, req types.RecordStrengthRequest) (*types.StrengthTest, error) {
	if _, err := s.openExamination(ctx, examinationID); err != nil {
		return nil, err
	}
	t := &types.StrengthTest{
		ID:            uuid.NewString(),
		ExaminationID: examinationID,
		BodyRegion:    req.BodyRegion,
		MuscleGroup:   req.MuscleGroup,
		Side:          req.Side,
		StrengthGrade: req.StrengthGrade,
		PainOnTesting: req.PainOnTesting,
		PainLevel:     req.PainLevel,
		Notes:         req.Notes,
	}
	if err := s.exams.AddStrengthTest(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ExaminationService) RecordSpecialTest(ctx context.Context, examinationID string, req types.RecordSpecialTestRequest) (*types.SpecialTest, error) {
	if _, err := s.openExamination(ctx, examinationID); err != nil {
		return nil, err
	}
	if req.Result != "" &&
		req.Result != types.TestResultPositive &&
		req.Result != types.TestResultNegative &&
		req.Result != types.TestResultEquivocal {
		return nil, fmt.Errorf("invalid test result: %s", req.Result)
	}
	t := &types.SpecialTest{
		ID:            uuid.NewString(),
		ExaminationID: examinationID,
		TestName:      req.TestName,
		BodyRegion:    req.BodyRegion,
		Side:          req.Side,
		Result:        req.Result,
		Findings:      req.Findings,
		Notes:         req.Notes,
	}
	if err := s.exams.AddSpecialTest(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete closes the examination and drops a milestone on the case
// timeline.
func (s *ExaminationService) Complete(ctx context.Context, id string) (*types.Examination, error) {
	exam, err := s.openExamination(ctx, id)
	if err != nil {
		return nil, err
	}
	exam.Status = types.ExamStatusCompleted
	exam.UpdateAt = time.Now().Unix()
	if err := s.exams.UpdateExamination(ctx, exam); err != nil {
		return nil, err
	}

	event := &types.TimelineEvent{
		ID:          uuid.NewString(),
		CaseID:      exam.CaseID,
		EventDate:   exam.ExamDate,
		EventType:   "examination",
		Title:       "Independent medical examination performed",
		SourceType:  types.EventSourceExamination,
		SourceID:    exam.ID,
		Severity:    types.EventSeverityMedium,
		IsMilestone: true,
		Icon:        timelineIcon("examination"),
		Color:       timelineColor(types.EventSeverityMedium),
		CreateAt:    exam.UpdateAt,
	}
	if err := s.timeline.AddEvent(ctx, event); err != nil {
		s.logger.Error().Str("examination_id", id).Err(err).Msg("failed to add timeline event")
	}
	return exam, nil
}
