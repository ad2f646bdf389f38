package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
	}
}

func (h *DocumentHandler) HandleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	caseID := c.Request.FormValue("case_id")
	if caseID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "case_id is required",
		})
		return
	}

	doc, err := h.documents.Upload(c.Request.Context(), caseID, requestUserID(c), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Document uploaded",
		Data: types.UploadResponse{
			DocumentID:   doc.ID,
			OriginalName: doc.FileName,
		},
	})
}

func (h *DocumentHandler) HandleGetDocument(c *gin.Context) {
	doc, err := h.documents.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Document not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document found",
		Data:    doc,
	})
}

func (h *DocumentHandler) HandleListByCase(c *gin.Context) {
	docs, err := h.documents.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Documents listed",
		Data:    docs,
	})
}

// HandleDownloadURL issues a short-lived signed link for the document.
func (h *DocumentHandler) HandleDownloadURL(c *gin.Context) {
	url, err := h.documents.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Document not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Download URL issued",
		Data:    gin.H{"download_url": url},
	})
}

// HandleDownload serves the stored PDF after verifying the signature. The
// route itself is unauthenticated; the signature is the credential.
func (h *DocumentHandler) HandleDownload(c *gin.Context) {
	expires, _ := strconv.ParseInt(c.Query("expires"), 10, 64)
	signature := c.Query("signature")

	data, doc, err := h.documents.Download(c.Request.Context(), c.Param("id"), expires, signature)
	if err != nil {
		if err == service.ErrInvalidSignature {
			c.JSON(http.StatusForbidden, types.DataResponse{
				Status:  "error",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Document not found",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.FileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	if err := h.documents.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Document not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document deleted",
	})
}
