package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

type ReportService struct {
	reports    repository.ReportRepo
	cases      repository.CaseRepo
	documents  repository.DocumentRepo
	extraction repository.ExtractionRepo
	logger     zerolog.Logger
}

func NewReportService(
	reports repository.ReportRepo,
	cases repository.CaseRepo,
	documents repository.DocumentRepo,
	extraction repository.ExtractionRepo,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		reports:    reports,
		cases:      cases,
		documents:  documents,
		extraction: extraction,
		logger:     logger.With().Str("component", "reports").Logger(),
	}
}

// CreateReport creates a draft report. Pre-exam summaries are seeded with
// sections generated from the case's analyzed documents.
func (s *ReportService) CreateReport(ctx context.Context, authorID string, req types.CreateReportRequest) (*types.ReportDetail, error) {
	c, err := s.cases.GetCase(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", c.CaseNumber, req.ReportType)
	}

	now := time.Now().Unix()
	report := &types.Report{
		ID:         uuid.NewString(),
		CaseID:     req.CaseID,
		ReportType: req.ReportType,
		Title:      title,
		Status:     types.ReportStatusDraft,
		AuthorID:   authorID,
		CreateAt:   now,
		UpdateAt:   now,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	var sections []types.ReportSection
	if req.ReportType == types.ReportTypePreExam {
		sections, err = s.seedPreExamSections(ctx, report, c)
		if err != nil {
			return nil, err
		}
	}
	s.logger.Info().Str("report_id", report.ID).Str("case_id", report.CaseID).Msg("report created")
	return &types.ReportDetail{Report: *report, Sections: sections}, nil
}

// seedPreExamSections builds the summary sections from extraction rows.
func (s *ReportService) seedPreExamSections(ctx context.Context, report *types.Report, c *types.Case) ([]types.ReportSection, error) {
	entities, err := s.extraction.ListEntitiesByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	dates, err := s.extraction.ListDatesByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListDocumentsByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	sections := []types.ReportSection{
		{
			Title:   "Case Overview",
			Content: s.caseOverview(c, docs),
		},
		{
			Title:   "Diagnoses of Record",
			Content: entitySummary(entities, types.EntityCategoryDiagnosis),
		},
		{
			Title:   "Medications",
			Content: entitySummary(entities, types.EntityCategoryMedication),
		},
		{
			Title:   "Procedures",
			Content: entitySummary(entities, types.EntityCategoryProcedure),
		},
		{
			Title:   "Treatment Chronology",
			Content: dateSummary(dates),
		},
	}

	for i := range sections {
		sections[i].ID = uuid.NewString()
		sections[i].ReportID = report.ID
		sections[i].Order = i
		if err := s.reports.AddSection(ctx, &sections[i]); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

func (s *ReportService) caseOverview(c *types.Case, docs []*types.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case %s: %s %s.", c.CaseNumber, c.PatientFirstName, c.PatientLastName)
	if c.InjuryDate != "" {
		fmt.Fprintf(&b, " Date of injury: %s.", c.InjuryDate)
	}
	if c.InjuryMechanism != "" {
		fmt.Fprintf(&b, " Mechanism: %s.", c.InjuryMechanism)
	}
	if len(c.InjuryBodyRegion) > 0 {
		fmt.Fprintf(&b, " Body regions: %s.", strings.Join(c.InjuryBodyRegion, ", "))
	}
	fmt.Fprintf(&b, " Records reviewed: %d.", len(docs))
	return b.String()
}

func entitySummary(rows []*types.EntityRow, category string) string {
	seen := make(map[string]bool)
	var lines []string
	for _, row := range rows {
		if row.Category != category {
			continue
		}
		key := strings.ToLower(row.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		line := "- " + row.Text
		if row.ICD10Code != "" {
			line += " (" + row.ICD10Code + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "None documented in the records reviewed."
	}
	return strings.Join(lines, "\n")
}

func dateSummary(rows []*types.DateRow) string {
	if len(rows) == 0 {
		return "No clinical dates extracted from the records reviewed."
	}
	var lines []string
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("- %s: %s", row.DateValue, row.DateType))
	}
	return strings.Join(lines, "\n")
}

func (s *ReportService) GetDetail(ctx context.Context, id string) (*types.ReportDetail, error) {
	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.reports.ListSections(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.ReportDetail{Report: *report, Sections: sections}, nil
}

func (s *ReportService) ListByCase(ctx context.Context, caseID string) ([]*types.Report, error) {
	return s.reports.ListReportsByCase(ctx, caseID)
}

func (s *ReportService) UpdateSection(ctx context.Context, reportID, sectionID string, req types.UpdateReportSectionRequest) (*types.ReportSection, error) {
	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == types.ReportStatusFinalized {
		return nil, ErrReportFinalized
	}

	section, err := s.reports.GetSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if req.Title != "" {
		section.Title = req.Title
	}
	section.Content = req.Content
	if err := s.reports.UpdateSection(ctx, section); err != nil {
		return nil, err
	}

	report.UpdateAt = time.Now().Unix()
	if err := s.reports.UpdateReport(ctx, report); err != nil {
		s.logger.Error().Str("report_id", reportID).Err(err).Msg("failed to bump report timestamp")
	}
	return section, nil
}

// RegenerateSections drops the report's sections and rebuilds them from
// the case's current extraction rows. Only pre-examination reports carry
// generated sections.
func (s *ReportService) RegenerateSections(ctx context.Context, id string) (*types.ReportDetail, error) {
	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status == types.ReportStatusFinalized {
		return nil, ErrReportFinalized
	}
	if report.ReportType != types.ReportTypePreExam {
		return nil, fmt.Errorf("sections are only generated for %s reports", types.ReportTypePreExam)
	}

	c, err := s.cases.GetCase(ctx, report.CaseID)
	if err != nil {
		return nil, err
	}
	if err := s.reports.DeleteSections(ctx, id); err != nil {
		return nil, err
	}
	sections, err := s.seedPreExamSections(ctx, report, c)
	if err != nil {
		return nil, err
	}

	report.UpdateAt = time.Now().Unix()
	if err := s.reports.UpdateReport(ctx, report); err != nil {
		s.logger.Error().Str("report_id", id).Err(err).Msg("failed to bump report timestamp")
	}
	return &types.ReportDetail{Report: *report, Sections: sections}, nil
}

// Finalize locks the report. Finalized reports reject further edits.
func (s *ReportService) Finalize(ctx context.Context, id string) (*types.Report, error) {
	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status == types.ReportStatusFinalized {
		return nil, ErrReportFinalized
	}
	report.Status = types.ReportStatusFinalized
	report.UpdateAt = time.Now().Unix()
	if err := s.reports.UpdateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}
