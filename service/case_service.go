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

// validTransitions is the case workflow. A case only moves along these
// edges; anything else is rejected.
var validTransitions = map[string][]string{
	types.CaseStatusOpen:       {types.CaseStatusInProgress, types.CaseStatusArchived},
	types.CaseStatusInProgress: {types.CaseStatusReview, types.CaseStatusOpen, types.CaseStatusArchived},
	types.CaseStatusReview:     {types.CaseStatusCompleted, types.CaseStatusInProgress},
	types.CaseStatusCompleted:  {types.CaseStatusArchived},
	types.CaseStatusArchived:   {},
}

type CaseService struct {
	cases  repository.CaseRepo
	audit  repository.AuditRepo
	logger zerolog.Logger
}

func NewCaseService(cases repository.CaseRepo, audit repository.AuditRepo, logger zerolog.Logger) *CaseService {
	return &CaseService{
		cases:  cases,
		audit:  audit,
		logger: logger.With().Str("component", "cases").Logger(),
	}
}

// nextCaseNumber builds the sequential IME-YYYY-NNNN identifier.
func (s *CaseService) nextCaseNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("IME-%d-", year)
	count, err := s.cases.CountCasesForYear(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *CaseService) CreateCase(ctx context.Context, userID string, req types.CreateCaseRequest) (*types.Case, error) {
	caseNumber, err := s.nextCaseNumber(ctx)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = types.CasePriorityNormal
	}

	now := time.Now().Unix()
	c := &types.Case{
		ID:               uuid.NewString(),
		CaseNumber:       caseNumber,
		PatientFirstName: req.PatientFirstName,
		PatientLastName:  req.PatientLastName,
		PatientDOB:       req.PatientDOB,
		InjuryDate:       req.InjuryDate,
		InjuryMechanism:  req.InjuryMechanism,
		InjuryBodyRegion: req.InjuryBodyRegion,
		RequestingParty:  req.RequestingParty,
		ExamDate:         req.ExamDate,
		ReportDueDate:    req.ReportDueDate,
		Priority:         priority,
		Status:           types.CaseStatusOpen,
		Notes:            req.Notes,
		Tags:             req.Tags,
		CreatedBy:        userID,
		CreateAt:         now,
		UpdateAt:         now,
	}
	if err := s.cases.CreateCase(ctx, c); err != nil {
		return nil, err
	}
	s.auditAction(ctx, userID, "case.created", c.ID)
	s.logger.Info().Str("case_id", c.ID).Str("case_number", c.CaseNumber).Msg("case created")
	return c, nil
}

func (s *CaseService) GetCase(ctx context.Context, id string) (*types.Case, error) {
	return s.cases.GetCase(ctx, id)
}

func (s *CaseService) ListCases(ctx context.Context, filter repository.CaseFilter, page, limit int64) ([]*types.Case, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.cases.ListCases(ctx, filter, limit, (page-1)*limit)
}

func (s *CaseService) UpdateCase(ctx context.Context, userID, id string, req types.UpdateCaseRequest) (*types.Case, error) {
	c, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PatientFirstName != "" {
		c.PatientFirstName = req.PatientFirstName
	}
	if req.PatientLastName != "" {
		c.PatientLastName = req.PatientLastName
	}
	if req.PatientDOB != "" {
		c.PatientDOB = req.PatientDOB
	}
	if req.InjuryDate != "" {
		c.InjuryDate = req.InjuryDate
	}
	if req.InjuryMechanism != "" {
		c.InjuryMechanism = req.InjuryMechanism
	}
	if len(req.InjuryBodyRegion) > 0 {
		c.InjuryBodyRegion = req.InjuryBodyRegion
	}
	if req.RequestingParty != "" {
		c.RequestingParty = req.RequestingParty
	}
	if req.ExamDate != "" {
		c.ExamDate = req.ExamDate
	}
	if req.ReportDueDate != "" {
		c.ReportDueDate = req.ReportDueDate
	}
	if req.Priority != "" {
		c.Priority = req.Priority
	}
	if req.Notes != "" {
		c.Notes = req.Notes
	}
	if len(req.Tags) > 0 {
		c.Tags = req.Tags
	}
	c.UpdateAt = time.Now().Unix()

	if err := s.cases.UpdateCase(ctx, c); err != nil {
		return nil, err
	}
	s.auditAction(ctx, userID, "case.updated", c.ID)
	return c, nil
}

// ChangeStatus moves the case along the workflow, recording the transition
// in the status history.
func (s *CaseService) ChangeStatus(ctx context.Context, userID, id string, req types.StatusChangeRequest) (*types.Case, error) {
	c, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[c.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("invalid status transition from %s to %s", c.Status, req.Status)
	}

	change := &types.CaseStatusChange{
		ID:         uuid.NewString(),
		CaseID:     c.ID,
		FromStatus: c.Status,
		ToStatus:   req.Status,
		ChangedBy:  userID,
		Notes:      req.Notes,
		ChangedAt:  time.Now().Unix(),
	}

	c.Status = req.Status
	c.UpdateAt = change.ChangedAt
	if err := s.cases.UpdateCase(ctx, c); err != nil {
		return nil, err
	}
	if err := s.cases.AddStatusChange(ctx, change); err != nil {
		s.logger.Error().Str("case_id", c.ID).Err(err).Msg("failed to record status change")
	}
	s.auditAction(ctx, userID, "case.status_changed", c.ID)
	return c, nil
}

func (s *CaseService) StatusHistory(ctx context.Context, id string) ([]*types.CaseStatusChange, error) {
	return s.cases.ListStatusChanges(ctx, id)
}

// AssignCase sets the physician or assistant on the case.
func (s *CaseService) AssignCase(ctx context.Context, userID, id string, req types.AssignCaseRequest) (*types.Case, error) {
	c, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PhysicianID != "" {
		c.AssignedPhysicianID = req.PhysicianID
	}
	if req.AssistantID != "" {
		c.AssignedAssistantID = req.AssistantID
	}
	c.UpdateAt = time.Now().Unix()
	if err := s.cases.UpdateCase(ctx, c); err != nil {
		return nil, err
	}
	s.auditAction(ctx, userID, "case.assigned", c.ID)
	return c, nil
}

// ArchiveCase moves the case to the archived status instead of removing
// it, so entities, dates and reports keyed on the case stay resolvable.
func (s *CaseService) ArchiveCase(ctx context.Context, userID, id string) (*types.Case, error) {
	c, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == types.CaseStatusArchived {
		return c, nil
	}

	change := &types.CaseStatusChange{
		ID:         uuid.NewString(),
		CaseID:     c.ID,
		FromStatus: c.Status,
		ToStatus:   types.CaseStatusArchived,
		ChangedBy:  userID,
		ChangedAt:  time.Now().Unix(),
	}
	c.Status = types.CaseStatusArchived
	c.UpdateAt = change.ChangedAt
	if err := s.cases.UpdateCase(ctx, c); err != nil {
		return nil, err
	}
	if err := s.cases.AddStatusChange(ctx, change); err != nil {
		s.logger.Error().Str("case_id", c.ID).Err(err).Msg("failed to record status change")
	}
	s.auditAction(ctx, userID, "case.archived", c.ID)
	return c, nil
}

// Stats summarizes the caseload visible to the dashboard.
func (s *CaseService) Stats(ctx context.Context, physicianID string) (*types.CaseStats, error) {
	filter := repository.CaseFilter{PhysicianID: physicianID}
	cases, total, err := s.cases.ListCases(ctx, filter, 1000, 0)
	if err != nil {
		return nil, err
	}

	stats := &types.CaseStats{
		Total:      int(total),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	today := time.Now().Format("2006-01-02")
	for _, c := range cases {
		stats.ByStatus[c.Status]++
		stats.ByPriority[c.Priority]++
		if c.ExamDate != "" && c.ExamDate >= today && c.Status != types.CaseStatusArchived {
			stats.UpcomingExams++
		}
		if c.ReportDueDate != "" && c.ReportDueDate < today &&
			c.Status != types.CaseStatusCompleted && c.Status != types.CaseStatusArchived {
			stats.OverdueReports++
		}
	}
	return stats, nil
}

func (s *CaseService) auditAction(ctx context.Context, userID, action, caseID string) {
	entry := &types.AuditLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		Action:       action,
		ResourceType: "case",
		ResourceID:   caseID,
		CreateAt:     time.Now().Unix(),
	}
	if err := s.audit.AddEntry(ctx, entry); err != nil {
		s.logger.Error().Str("case_id", caseID).Err(err).Msg("failed to write audit entry")
	}
}
