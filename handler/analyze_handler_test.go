package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type stubSegmenter struct {
	pages  int
	chunks []types.Chunk
	err    error
}

func (s *stubSegmenter) Split(data []byte) (int, []types.Chunk, error) {
	return s.pages, s.chunks, s.err
}

type stubExtractor struct{}

func (stubExtractor) ExtractChunk(ctx context.Context, chunk types.Chunk) types.ExtractionRecord {
	return types.ExtractionRecord{ChunkIndex: chunk.Index}
}

type stubSynthesizer struct {
	output *types.SynthesisOutput
	err    error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, records []types.ExtractionRecord) (*types.SynthesisOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

type stubPersister struct{}

func (stubPersister) Persist(ctx context.Context, result *types.AnalysisResult) error { return nil }
func (stubPersister) PersistFailure(ctx context.Context, documentID, caseID, fileName string) error {
	return nil
}

type stubProgress struct{}

func (stubProgress) Publish(types.ProcessingStatus) {}

func newAnalyzeRouter(segmenter *stubSegmenter, synthesizer *stubSynthesizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	analysis := service.NewAnalysisService(segmenter, stubExtractor{}, synthesizer, stubPersister{}, stubProgress{}, zerolog.Nop())
	h := NewAnalyzeHandler(analysis)

	router := gin.New()
	router.POST("/api/v1/document-intelligence/analyze", h.HandleAnalyze)
	return router
}

func analyzeRequest(t *testing.T, fileName, caseID string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if caseID != "" {
		require.NoError(t, writer.WriteField("case_id", caseID))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document-intelligence/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleAnalyzeMissingFile(t *testing.T) {
	router := newAnalyzeRouter(&stubSegmenter{}, &stubSynthesizer{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "", "case-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeMissingCaseID(t *testing.T) {
	router := newAnalyzeRouter(&stubSegmenter{}, &stubSynthesizer{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "records.pdf", "", []byte("pdf")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeRejectsNonPDF(t *testing.T) {
	router := newAnalyzeRouter(&stubSegmenter{}, &stubSynthesizer{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "records.docx", "case-1", []byte("doc")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	segmenter := &stubSegmenter{
		pages:  10,
		chunks: []types.Chunk{{Index: 0, FirstPage: 1, LastPage: 10, Data: []byte("pdf")}},
	}
	synthesizer := &stubSynthesizer{
		output: &types.SynthesisOutput{DocumentType: "office visit note", Confidence: 0.9},
	}
	router := newAnalyzeRouter(segmenter, synthesizer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "records.pdf", "case-1", []byte("pdf")))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string               `json:"status"`
		Data   types.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "case-1", resp.Data.CaseID)
	assert.Equal(t, "office visit note", resp.Data.DocumentType)
	assert.Equal(t, 10, resp.Data.PageCount)
	assert.True(t, resp.Data.Persisted)
}

func TestHandleAnalyzeUnreadablePDFReturns400(t *testing.T) {
	segmenter := &stubSegmenter{
		err: &types.MalformedInputError{Reason: "failed to parse PDF"},
	}
	router := newAnalyzeRouter(segmenter, &stubSynthesizer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "records.pdf", "case-1", []byte("garbage")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeFailureReturns500(t *testing.T) {
	segmenter := &stubSegmenter{
		pages:  10,
		chunks: []types.Chunk{{Index: 0, FirstPage: 1, LastPage: 10, Data: []byte("pdf")}},
	}
	synthesizer := &stubSynthesizer{
		err: &types.SynthesisError{Err: errors.New("model unavailable")},
	}
	router := newAnalyzeRouter(segmenter, synthesizer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, analyzeRequest(t, "records.pdf", "case-1", []byte("pdf")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
