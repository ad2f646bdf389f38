package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoime/medicase-be/types"
)

type fakeSegmenter struct {
	pages  int
	chunks []types.Chunk
	err    error
}

func (f *fakeSegmenter) Split(data []byte) (int, []types.Chunk, error) {
	return f.pages, f.chunks, f.err
}

type fakeExtractor struct {
	mu      sync.Mutex
	calls   int
	failAll bool
}

func (f *fakeExtractor) ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.failAll {
		return types.ExtractionRecord{
			ChunkIndex: chunk.Index,
			Err:        fmt.Sprintf("extraction failed for chunk %d: model unavailable", chunk.Index),
		}
	}
	return types.ExtractionRecord{
		ChunkIndex: chunk.Index,
		Entities: []types.MedicalEntity{
			{Text: fmt.Sprintf("finding %d", chunk.Index), Category: types.EntityCategoryFinding, Confidence: 0.9},
		},
	}
}

type fakeSynthesizer struct {
	calls  int
	output *types.SynthesisOutput
	err    error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, records []types.ExtractionRecord) (*types.SynthesisOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

type fakePersister struct {
	persisted   []*types.AnalysisResult
	failures    []string
	persistErr  error
	failureErr  error
}

func (f *fakePersister) Persist(ctx context.Context, result *types.AnalysisResult) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.persisted = append(f.persisted, result)
	return nil
}

func (f *fakePersister) PersistFailure(ctx context.Context, documentID, caseID, fileName string) error {
	f.failures = append(f.failures, documentID)
	return f.failureErr
}

type fakeProgress struct {
	mu     sync.Mutex
	states []string
}

func (f *fakeProgress) Publish(status types.ProcessingStatus) {
	f.mu.Lock()
	f.states = append(f.states, status.State)
	f.mu.Unlock()
}

func (f *fakeProgress) lastState() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.states) == 0 {
		return ""
	}
	return f.states[len(f.states)-1]
}

func makeChunks(n, chunkSize int) []types.Chunk {
	chunks := make([]types.Chunk, n)
	for i := range chunks {
		chunks[i] = types.Chunk{
			Index:     i,
			FirstPage: i*chunkSize + 1,
			LastPage:  (i + 1) * chunkSize,
			Data:      []byte("pdf"),
		}
	}
	return chunks
}

func newTestAnalysis(seg DocumentSegmenter, ext ChunkExtractor, syn Synthesizer, pers ResultPersister, prog ProgressPublisher) *AnalysisService {
	return NewAnalysisService(seg, ext, syn, pers, prog, zerolog.Nop())
}

func TestAnalyzeDocumentHappyPath(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 120, chunks: makeChunks(3, 50)}
	extractor := &fakeExtractor{}
	output := &types.SynthesisOutput{
		DocumentType: "medical records",
		Entities:     make([]types.MedicalEntity, 10),
		Dates:        make([]types.ClinicalDate, 3),
		Confidence:   0.8,
	}
	synthesizer := &fakeSynthesizer{output: output}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		FileName:   "records.pdf",
		Data:       []byte("pdf"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Equal(t, "case-1", result.CaseID)
	assert.Equal(t, "medical records", result.DocumentType)
	assert.Equal(t, 120, result.PageCount)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Equal(t, 0, result.FailedChunks)
	assert.Equal(t, QualityScore(output), result.QualityScore)
	assert.True(t, result.Persisted)

	assert.Equal(t, 3, extractor.calls)
	assert.Equal(t, 1, synthesizer.calls)
	require.Len(t, persister.persisted, 1)
	assert.Equal(t, types.AnalysisStateDone, progress.lastState())
}

// gateExtractor blocks every call until all expected calls are in flight,
// so the test fails if extraction is serialized in batches.
type gateExtractor struct {
	mu       sync.Mutex
	expected int
	inFlight int
	maxSeen  int
	release  chan struct{}
}

func newGateExtractor(expected int) *gateExtractor {
	return &gateExtractor{expected: expected, release: make(chan struct{})}
}

func (g *gateExtractor) ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	if g.inFlight == g.expected {
		close(g.release)
	}
	g.mu.Unlock()

	select {
	case <-g.release:
	case <-time.After(2 * time.Second):
	}

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()
	return types.ExtractionRecord{ChunkIndex: chunk.Index}
}

func TestAnalyzeDocumentExtractsAllChunksConcurrently(t *testing.T) {
	const chunkCount = 8
	segmenter := &fakeSegmenter{pages: chunkCount * 50, chunks: makeChunks(chunkCount, 50)}
	extractor := newGateExtractor(chunkCount)
	synthesizer := &fakeSynthesizer{output: &types.SynthesisOutput{DocumentType: "records", Confidence: 0.9}}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, chunkCount, extractor.maxSeen)
	assert.Equal(t, 0, result.FailedChunks)
}

func TestAnalyzeDocumentMalformedInput(t *testing.T) {
	segmenter := &fakeSegmenter{err: &types.MalformedInputError{Reason: "failed to parse PDF"}}
	extractor := &fakeExtractor{}
	synthesizer := &fakeSynthesizer{}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.Error(t, err)
	assert.Nil(t, result)

	var malformed *types.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, extractor.calls)
	assert.Equal(t, 0, synthesizer.calls)
	assert.Equal(t, []string{"doc-1"}, persister.failures)
	assert.Equal(t, types.AnalysisStateFailed, progress.lastState())
}

func TestAnalyzeDocumentEmptyDocument(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 0, chunks: nil}
	extractor := &fakeExtractor{}
	synthesizer := &fakeSynthesizer{}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 0, result.PageCount)
	assert.Equal(t, 0, result.ChunkCount)
	assert.Empty(t, result.Entities)
	assert.Equal(t, 0.0, result.QualityScore)
	assert.True(t, result.Persisted)
	// the models are never called for an empty document
	assert.Equal(t, 0, extractor.calls)
	assert.Equal(t, 0, synthesizer.calls)
	assert.Equal(t, types.AnalysisStateDone, progress.lastState())
}

func TestAnalyzeDocumentAllChunksFail(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 120, chunks: makeChunks(3, 50)}
	extractor := &fakeExtractor{failAll: true}
	synthesizer := &fakeSynthesizer{output: &types.SynthesisOutput{}}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.Error(t, err)
	assert.Nil(t, result)

	var extractionErr *types.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
	// synthesis is never attempted when no chunk survived
	assert.Equal(t, 0, synthesizer.calls)
	assert.Equal(t, []string{"doc-1"}, persister.failures)
	assert.Equal(t, types.AnalysisStateFailed, progress.lastState())
}

func TestAnalyzeDocumentPartialChunkFailureSucceeds(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 120, chunks: makeChunks(3, 50)}
	extractor := &fakeExtractor{}
	output := &types.SynthesisOutput{DocumentType: "records", Confidence: 0.7}
	synthesizer := &fakeSynthesizer{output: output}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, &partialFailExtractor{inner: extractor, failIndex: 1}, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedChunks)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Equal(t, 1, synthesizer.calls)
}

type partialFailExtractor struct {
	inner     *fakeExtractor
	failIndex int
}

func (p *partialFailExtractor) ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord {
	if chunk.Index == p.failIndex {
		return types.ExtractionRecord{ChunkIndex: chunk.Index, Err: "extraction failed"}
	}
	return p.inner.ExtractChunk(ctx, chunk)
}

func TestAnalyzeDocumentSynthesisFailure(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 60, chunks: makeChunks(2, 30)}
	extractor := &fakeExtractor{}
	synthesizer := &fakeSynthesizer{err: &types.SynthesisError{Err: errors.New("model refused")}}
	persister := &fakePersister{}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.Error(t, err)
	assert.Nil(t, result)

	var synthesisErr *types.SynthesisError
	assert.ErrorAs(t, err, &synthesisErr)
	assert.Equal(t, []string{"doc-1"}, persister.failures)
	assert.Equal(t, types.AnalysisStateFailed, progress.lastState())
}

func TestAnalyzeDocumentPersistenceFailureStillReturnsResult(t *testing.T) {
	segmenter := &fakeSegmenter{pages: 10, chunks: makeChunks(1, 10)}
	extractor := &fakeExtractor{}
	output := &types.SynthesisOutput{DocumentType: "records", Confidence: 0.9}
	synthesizer := &fakeSynthesizer{output: output}
	persister := &fakePersister{persistErr: &types.PersistenceError{Collection: "medical_entities", Err: errors.New("write rejected")}}
	progress := &fakeProgress{}

	svc := newTestAnalysis(segmenter, extractor, synthesizer, persister, progress)
	result, err := svc.AnalyzeDocument(context.Background(), AnalyzeRequest{DocumentID: "doc-1", CaseID: "case-1"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Persisted)
	assert.Equal(t, "records", result.DocumentType)
	// The document is marked failed and the run ends failed, but the
	// caller still gets the analysis.
	assert.Equal(t, []string{"doc-1"}, persister.failures)
	assert.Equal(t, types.AnalysisStateFailed, progress.lastState())
}
