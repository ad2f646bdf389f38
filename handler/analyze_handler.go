package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

// maxAnalyzeSize caps uploads to the analyze endpoint.
const maxAnalyzeSize = 200 << 20

type AnalyzeHandler struct {
	analysis *service.AnalysisService
}

func NewAnalyzeHandler(analysis *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
	}
}

// HandleAnalyze runs the full document-intelligence pipeline synchronously
// and returns the analysis result. Input validation failures are 400, any
// analysis failure is 500.
func (h *AnalyzeHandler) HandleAnalyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	caseID := c.Request.FormValue("case_id")
	if caseID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "case_id is required",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Only PDF documents are supported",
		})
		return
	}
	if header.Size > maxAnalyzeSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Failed to read file",
		})
		return
	}

	documentID := c.Request.FormValue("document_id")
	if documentID == "" {
		documentID = uuid.NewString()
	}

	result, err := h.analysis.AnalyzeDocument(c.Request.Context(), service.AnalyzeRequest{
		DocumentID: documentID,
		CaseID:     caseID,
		FileName:   header.Filename,
		Data:       data,
	})
	if err != nil {
		// Unreadable input is the caller's fault, everything else is ours.
		var malformed *types.MalformedInputError
		status := http.StatusInternalServerError
		if errors.As(err, &malformed) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document analyzed",
		Data:    result,
	})
}
