package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

// ResultPersister writes a finished analysis to storage. Writes are not
// transactional: the document status lands first, then entities, then
// dates, then sections. A failure partway leaves the earlier writes in
// place and is reported with the collection that rejected the write.
type ResultPersister interface {
	Persist(ctx context.Context, result *types.AnalysisResult) error
	PersistFailure(ctx context.Context, documentID, caseID, fileName string) error
}

type resultPersister struct {
	documents  repository.DocumentRepo
	extraction repository.ExtractionRepo
	logger     zerolog.Logger

	mu       sync.Mutex
	probed   bool
	extended bool
}

func NewResultPersister(documents repository.DocumentRepo, extraction repository.ExtractionRepo, logger zerolog.Logger) ResultPersister {
	return &resultPersister{
		documents:  documents,
		extraction: extraction,
		logger:     logger.With().Str("component", "persister").Logger(),
	}
}

// schemaExtended resolves the storage schema tier once and caches it for
// the life of the persister.
func (p *resultPersister) schemaExtended(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.probed {
		p.extended = p.extraction.SupportsExtendedSchema(ctx)
		p.probed = true
		p.logger.Info().Bool("extended_schema", p.extended).Msg("storage schema resolved")
	}
	return p.extended
}

func (p *resultPersister) downgradeSchema() {
	p.mu.Lock()
	p.extended = false
	p.mu.Unlock()
	p.logger.Warn().Msg("extended schema write rejected, downgrading to minimal schema")
}

func (p *resultPersister) Persist(ctx context.Context, result *types.AnalysisResult) error {
	now := time.Now().Unix()

	doc := &types.Document{
		ID:           result.DocumentID,
		CaseID:       result.CaseID,
		DocumentType: result.DocumentType,
		QualityScore: result.QualityScore,
		Status:       types.DocumentStatusCompleted,
		AnalyzedAt:   now,
	}
	if err := p.documents.UpsertStatus(ctx, doc); err != nil {
		return &types.PersistenceError{Collection: "documents", Err: err}
	}

	extended := p.schemaExtended(ctx)
	err := p.insertRows(ctx, result, extended, now)
	if err != nil && extended {
		// One retry on the minimal shape, then give up.
		p.downgradeSchema()
		err = p.insertRows(ctx, result, false, now)
	}
	return err
}

func (p *resultPersister) insertRows(ctx context.Context, result *types.AnalysisResult, extended bool, now int64) error {
	entityRows := make([]*types.EntityRow, 0, len(result.Entities))
	for _, entity := range result.Entities {
		row := &types.EntityRow{
			ID:         uuid.NewString(),
			CaseID:     result.CaseID,
			DocumentID: result.DocumentID,
			Text:       entity.Text,
			Category:   entity.Category,
			Confidence: entity.Confidence,
			CreateAt:   now,
		}
		if extended {
			row.ICD10Code = entity.ICD10Code
			row.SourceText = entity.SourceText
		}
		entityRows = append(entityRows, row)
	}
	if err := p.extraction.BulkInsertEntities(ctx, entityRows); err != nil {
		return &types.PersistenceError{Collection: "medical_entities", Err: err}
	}

	dateRows := make([]*types.DateRow, 0, len(result.Dates))
	for _, date := range result.Dates {
		row := &types.DateRow{
			ID:         uuid.NewString(),
			CaseID:     result.CaseID,
			DocumentID: result.DocumentID,
			DateValue:  date.Date,
			DateType:   date.DateType,
			Confidence: date.Confidence,
			CreateAt:   now,
		}
		if extended {
			row.SourceText = date.SourceText
		}
		dateRows = append(dateRows, row)
	}
	if err := p.extraction.BulkInsertDates(ctx, dateRows); err != nil {
		return &types.PersistenceError{Collection: "clinical_dates", Err: err}
	}

	// Sections only exist on the extended tier.
	if extended {
		sectionRows := make([]*types.SectionRow, 0, len(result.Sections))
		for _, section := range result.Sections {
			sectionRows = append(sectionRows, &types.SectionRow{
				ID:          uuid.NewString(),
				CaseID:      result.CaseID,
				DocumentID:  result.DocumentID,
				Title:       section.Title,
				SectionType: section.SectionType,
				Content:     section.Content,
				Confidence:  section.Confidence,
				CreateAt:    now,
			})
		}
		if err := p.extraction.BulkInsertSections(ctx, sectionRows); err != nil {
			return &types.PersistenceError{Collection: "document_sections", Err: err}
		}
	}
	return nil
}

// PersistFailure marks the document failed. Best effort: the analysis
// error, not a tracking write error, is what the caller reports.
func (p *resultPersister) PersistFailure(ctx context.Context, documentID, caseID, fileName string) error {
	doc := &types.Document{
		ID:       documentID,
		CaseID:   caseID,
		FileName: fileName,
		Status:   types.DocumentStatusFailed,
	}
	if err := p.documents.UpsertStatus(ctx, doc); err != nil {
		return &types.PersistenceError{Collection: "documents", Err: err}
	}
	return nil
}
