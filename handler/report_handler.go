package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reports: reports,
	}
}

func (h *ReportHandler) HandleCreate(c *gin.Context) {
	var req types.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CaseID == "" || req.ReportType == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "case_id and report_type are required",
		})
		return
	}
	detail, err := h.reports.CreateReport(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Report created",
		Data:    detail,
	})
}

func (h *ReportHandler) HandleGetDetail(c *gin.Context) {
	detail, err := h.reports.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Report not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Report found",
		Data:    detail,
	})
}

func (h *ReportHandler) HandleListByCase(c *gin.Context) {
	reports, err := h.reports.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Reports listed",
		Data:    reports,
	})
}

func (h *ReportHandler) HandleUpdateSection(c *gin.Context) {
	var req types.UpdateReportSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	section, err := h.reports.UpdateSection(c.Request.Context(), c.Param("id"), c.Param("sectionId"), req)
	if err != nil {
		c.JSON(reportErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Section updated",
		Data:    section,
	})
}

func (h *ReportHandler) HandleRegenerateSections(c *gin.Context) {
	detail, err := h.reports.RegenerateSections(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(reportErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Sections regenerated",
		Data:    detail,
	})
}

func (h *ReportHandler) HandleFinalize(c *gin.Context) {
	report, err := h.reports.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(reportErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Report finalized",
		Data:    report,
	})
}

func reportErrorStatus(err error) int {
	if err == service.ErrReportFinalized {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
