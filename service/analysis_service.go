package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/orthoime/medicase-be/types"
)

var errAllChunksFailed = errors.New("every chunk failed extraction")

// AnalyzeRequest carries one document into the pipeline.
type AnalyzeRequest struct {
	DocumentID string
	CaseID     string
	FileName   string
	Data       []byte
}

// DocumentSegmenter splits a raw document into extraction chunks.
type DocumentSegmenter interface {
	Split(data []byte) (int, []types.Chunk, error)
}

// AnalysisService drives one document through segmenting, parallel chunk
// extraction, synthesis, scoring and persistence. Every run walks the
// states in order; failed is absorbing and a run never leaves it.
type AnalysisService struct {
	segmenter   DocumentSegmenter
	extractor   ChunkExtractor
	synthesizer Synthesizer
	persister   ResultPersister
	progress    ProgressPublisher
	logger      zerolog.Logger
}

func NewAnalysisService(
	segmenter DocumentSegmenter,
	extractor ChunkExtractor,
	synthesizer Synthesizer,
	persister ResultPersister,
	progress ProgressPublisher,
	logger zerolog.Logger,
) *AnalysisService {
	return &AnalysisService{
		segmenter:   segmenter,
		extractor:   extractor,
		synthesizer: synthesizer,
		persister:   persister,
		progress:    progress,
		logger:      logger.With().Str("component", "analysis").Logger(),
	}
}

func (s *AnalysisService) publish(documentID, state, message string, total, completed int) {
	status := types.ProcessingStatus{
		DocumentID:      documentID,
		State:           state,
		Message:         message,
		TotalChunks:     total,
		CompletedChunks: completed,
	}
	if total > 0 {
		status.Progress = float64(completed) / float64(total)
	}
	s.progress.Publish(status)
}

// fail marks the document failed in storage (best effort) and reports the
// terminal state before returning the analysis error.
func (s *AnalysisService) fail(ctx context.Context, req AnalyzeRequest, err error) error {
	if persistErr := s.persister.PersistFailure(ctx, req.DocumentID, req.CaseID, req.FileName); persistErr != nil {
		s.logger.Error().Str("document_id", req.DocumentID).Err(persistErr).Msg("failed to record analysis failure")
	}
	s.publish(req.DocumentID, types.AnalysisStateFailed, err.Error(), 0, 0)
	return err
}

// AnalyzeDocument runs the full pipeline. The returned result is valid
// even when persistence failed; Persisted reports whether storage holds it.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*types.AnalysisResult, error) {
	started := time.Now()
	log := s.logger.With().
		Str("document_id", req.DocumentID).
		Str("case_id", req.CaseID).
		Logger()

	s.publish(req.DocumentID, types.AnalysisStateSegmenting, "segmenting document", 0, 0)
	pageCount, chunks, err := s.segmenter.Split(req.Data)
	if err != nil {
		log.Warn().Err(err).Msg("segmentation rejected document")
		return nil, s.fail(ctx, req, err)
	}
	log.Info().Int("pages", pageCount).Int("chunks", len(chunks)).Msg("document segmented")

	// A parseable document with no pages produces an empty result without
	// touching the models.
	if len(chunks) == 0 {
		result := s.assembleResult(req, &types.SynthesisOutput{}, 0, 0, 0, started)
		if s.persistResult(ctx, req, log, result) {
			s.publish(req.DocumentID, types.AnalysisStateDone, "document empty", 0, 0)
		} else {
			s.publish(req.DocumentID, types.AnalysisStateFailed, "persistence failed", 0, 0)
		}
		return result, nil
	}

	s.publish(req.DocumentID, types.AnalysisStateExtracting, "extracting chunks", len(chunks), 0)
	records := make([]types.ExtractionRecord, len(chunks))
	var completed atomic.Int64

	// One goroutine per chunk: total latency tracks the slowest chunk,
	// not the sum.
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			records[i] = s.extractor.ExtractChunk(gctx, chunk)
			done := int(completed.Add(1))
			s.publish(req.DocumentID, types.AnalysisStateExtracting, "extracting chunks", len(chunks), done)
			return nil
		})
	}
	// Extraction goroutines never return errors; failures live in the records.
	g.Wait()

	failed := 0
	firstFailed := -1
	for _, record := range records {
		if record.Failed() {
			failed++
			if firstFailed < 0 {
				firstFailed = record.ChunkIndex
			}
		}
	}
	log.Info().Int("chunks", len(chunks)).Int("failed", failed).Msg("extraction complete")
	if failed == len(records) {
		err := &types.ExtractionError{ChunkIndex: firstFailed, Err: errAllChunksFailed}
		return nil, s.fail(ctx, req, err)
	}

	s.publish(req.DocumentID, types.AnalysisStateSynthesizing, "synthesizing results", len(chunks), len(chunks))
	output, err := s.synthesizer.Synthesize(ctx, records)
	if err != nil {
		log.Error().Err(err).Msg("synthesis failed")
		return nil, s.fail(ctx, req, err)
	}

	s.publish(req.DocumentID, types.AnalysisStateScoring, "scoring result", len(chunks), len(chunks))
	result := s.assembleResult(req, output, pageCount, len(chunks), failed, started)

	s.publish(req.DocumentID, types.AnalysisStatePersisting, "persisting result", len(chunks), len(chunks))
	if s.persistResult(ctx, req, log, result) {
		s.publish(req.DocumentID, types.AnalysisStateDone, "analysis complete", len(chunks), len(chunks))
	} else {
		s.publish(req.DocumentID, types.AnalysisStateFailed, "persistence failed", len(chunks), len(chunks))
	}
	log.Info().
		Float64("quality_score", result.QualityScore).
		Float64("processing_time", result.ProcessingTime).
		Bool("persisted", result.Persisted).
		Msg("analysis complete")
	return result, nil
}

func (s *AnalysisService) assembleResult(req AnalyzeRequest, output *types.SynthesisOutput, pageCount, chunkCount, failedChunks int, started time.Time) *types.AnalysisResult {
	return &types.AnalysisResult{
		DocumentID:      req.DocumentID,
		CaseID:          req.CaseID,
		DocumentType:    output.DocumentType,
		Entities:        output.Entities,
		Dates:           output.Dates,
		Sections:        output.Sections,
		Tables:          output.Tables,
		KeyFindings:     output.KeyFindings,
		Inconsistencies: output.Inconsistencies,
		PageCount:       pageCount,
		ChunkCount:      chunkCount,
		FailedChunks:    failedChunks,
		ProcessingTime:  time.Since(started).Seconds(),
		QualityScore:    QualityScore(output),
	}
}

// persistResult stores the result. Storage failure does not discard the
// analysis: the caller still gets the full result back, but the document
// is marked failed and the run ends in the failed state.
func (s *AnalysisService) persistResult(ctx context.Context, req AnalyzeRequest, log zerolog.Logger, result *types.AnalysisResult) bool {
	if err := s.persister.Persist(ctx, result); err != nil {
		log.Error().Err(err).Msg("failed to persist analysis result")
		if persistErr := s.persister.PersistFailure(ctx, req.DocumentID, req.CaseID, req.FileName); persistErr != nil {
			log.Error().Err(persistErr).Msg("failed to record analysis failure")
		}
		result.Persisted = false
		return false
	}
	result.Persisted = true
	return true
}
