package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoime/medicase-be/types"
)

type fakeDocumentRepo struct {
	upserts []*types.Document
	err     error
}

func (f *fakeDocumentRepo) CreateDocument(ctx context.Context, doc *types.Document) error { return nil }
func (f *fakeDocumentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	return nil, errors.New("not found")
}
func (f *fakeDocumentRepo) ListDocumentsByCase(ctx context.Context, caseID string) ([]*types.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) UpdateDocument(ctx context.Context, doc *types.Document) error { return nil }
func (f *fakeDocumentRepo) UpsertStatus(ctx context.Context, doc *types.Document) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, doc)
	return nil
}
func (f *fakeDocumentRepo) DeleteDocument(ctx context.Context, id string) error { return nil }

type fakeExtractionRepo struct {
	extended         bool
	probes           int
	entities         [][]*types.EntityRow
	dates            [][]*types.DateRow
	sections         [][]*types.SectionRow
	failExtendedOnce bool
	entityErr        error
}

func (f *fakeExtractionRepo) BulkInsertEntities(ctx context.Context, rows []*types.EntityRow) error {
	if f.entityErr != nil {
		return f.entityErr
	}
	if f.failExtendedOnce && len(rows) > 0 && rows[0].ICD10Code != "" {
		f.failExtendedOnce = false
		return errors.New("document failed validation")
	}
	f.entities = append(f.entities, rows)
	return nil
}
func (f *fakeExtractionRepo) BulkInsertDates(ctx context.Context, rows []*types.DateRow) error {
	f.dates = append(f.dates, rows)
	return nil
}
func (f *fakeExtractionRepo) BulkInsertSections(ctx context.Context, rows []*types.SectionRow) error {
	f.sections = append(f.sections, rows)
	return nil
}
func (f *fakeExtractionRepo) ListEntitiesByCase(ctx context.Context, caseID string) ([]*types.EntityRow, error) {
	return nil, nil
}
func (f *fakeExtractionRepo) ListDatesByCase(ctx context.Context, caseID string) ([]*types.DateRow, error) {
	return nil, nil
}
func (f *fakeExtractionRepo) ListSectionsByDocument(ctx context.Context, documentID string) ([]*types.SectionRow, error) {
	return nil, nil
}
func (f *fakeExtractionRepo) SupportsExtendedSchema(ctx context.Context) bool {
	f.probes++
	return f.extended
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		DocumentID:   "doc-1",
		CaseID:       "case-1",
		DocumentType: "office visit note",
		Entities: []types.MedicalEntity{
			{Text: "lumbar strain", Category: types.EntityCategoryDiagnosis, ICD10Code: "S39.012", Confidence: 0.9, SourceText: "dx: lumbar strain"},
		},
		Dates: []types.ClinicalDate{
			{Date: "2024-03-15", DateType: types.DateTypeService, Confidence: 0.85, SourceText: "seen on 3/15/24"},
		},
		Sections: []types.DocumentSection{
			{Title: "Assessment", Content: "improving"},
		},
		QualityScore: 0.72,
	}
}

func TestPersistExtendedSchema(t *testing.T) {
	docs := &fakeDocumentRepo{}
	extraction := &fakeExtractionRepo{extended: true}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	require.NoError(t, p.Persist(context.Background(), sampleResult()))

	require.Len(t, docs.upserts, 1)
	assert.Equal(t, types.DocumentStatusCompleted, docs.upserts[0].Status)
	assert.Equal(t, 0.72, docs.upserts[0].QualityScore)

	require.Len(t, extraction.entities, 1)
	require.Len(t, extraction.entities[0], 1)
	assert.Equal(t, "S39.012", extraction.entities[0][0].ICD10Code)
	assert.Equal(t, "case-1", extraction.entities[0][0].CaseID)
	assert.Equal(t, "doc-1", extraction.entities[0][0].DocumentID)

	require.Len(t, extraction.sections, 1)
	require.Len(t, extraction.sections[0], 1)
}

func TestPersistMinimalSchemaWithholdsExtendedFields(t *testing.T) {
	docs := &fakeDocumentRepo{}
	extraction := &fakeExtractionRepo{extended: false}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	require.NoError(t, p.Persist(context.Background(), sampleResult()))

	require.Len(t, extraction.entities, 1)
	assert.Empty(t, extraction.entities[0][0].ICD10Code)
	assert.Empty(t, extraction.entities[0][0].SourceText)
	// sections are an extended-schema concept
	assert.Empty(t, extraction.sections)
}

func TestPersistProbesSchemaOnce(t *testing.T) {
	docs := &fakeDocumentRepo{}
	extraction := &fakeExtractionRepo{extended: true}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	require.NoError(t, p.Persist(context.Background(), sampleResult()))
	require.NoError(t, p.Persist(context.Background(), sampleResult()))
	require.NoError(t, p.Persist(context.Background(), sampleResult()))
	assert.Equal(t, 1, extraction.probes)
}

func TestPersistDowngradesOnExtendedWriteFailure(t *testing.T) {
	docs := &fakeDocumentRepo{}
	extraction := &fakeExtractionRepo{extended: true, failExtendedOnce: true}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	require.NoError(t, p.Persist(context.Background(), sampleResult()))

	// the retried write carries the minimal row shape
	require.Len(t, extraction.entities, 1)
	assert.Empty(t, extraction.entities[0][0].ICD10Code)

	// later writes stay on the minimal tier without re-probing
	require.NoError(t, p.Persist(context.Background(), sampleResult()))
	require.Len(t, extraction.entities, 2)
	assert.Empty(t, extraction.entities[1][0].ICD10Code)
	assert.Equal(t, 1, extraction.probes)
}

func TestPersistReportsFailedCollection(t *testing.T) {
	docs := &fakeDocumentRepo{}
	extraction := &fakeExtractionRepo{extended: false, entityErr: errors.New("write rejected")}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	err := p.Persist(context.Background(), sampleResult())
	require.Error(t, err)
	var persistenceErr *types.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "medical_entities", persistenceErr.Collection)
	// document status write went through before the failing insert
	assert.Len(t, docs.upserts, 1)
}

func TestPersistDocumentStatusFailure(t *testing.T) {
	docs := &fakeDocumentRepo{err: errors.New("down")}
	extraction := &fakeExtractionRepo{}
	p := NewResultPersister(docs, extraction, zerolog.Nop())

	err := p.Persist(context.Background(), sampleResult())
	require.Error(t, err)
	var persistenceErr *types.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "documents", persistenceErr.Collection)
	assert.Empty(t, extraction.entities)
}

func TestPersistFailureMarksDocumentFailed(t *testing.T) {
	docs := &fakeDocumentRepo{}
	p := NewResultPersister(docs, &fakeExtractionRepo{}, zerolog.Nop())

	require.NoError(t, p.PersistFailure(context.Background(), "doc-1", "case-1", "records.pdf"))
	require.Len(t, docs.upserts, 1)
	assert.Equal(t, types.DocumentStatusFailed, docs.upserts[0].Status)
	assert.Equal(t, "case-1", docs.upserts[0].CaseID)
}
