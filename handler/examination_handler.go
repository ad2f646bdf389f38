package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type ExaminationHandler struct {
	exams *service.ExaminationService
}

func NewExaminationHandler(exams *service.ExaminationService) *ExaminationHandler {
	return &ExaminationHandler{
		exams: exams,
	}
}

func (h *ExaminationHandler) HandleCreate(c *gin.Context) {
	var req types.CreateExaminationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CaseID == "" || req.ExamDate == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "case_id and exam_date are required",
		})
		return
	}
	exam, err := h.exams.CreateExamination(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Examination created",
		Data:    exam,
	})
}

func (h *ExaminationHandler) HandleGetDetail(c *gin.Context) {
	detail, err := h.exams.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Examination not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Examination found",
		Data:    detail,
	})
}

func (h *ExaminationHandler) HandleListByCase(c *gin.Context) {
	exams, err := h.exams.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Examinations listed",
		Data:    exams,
	})
}

func (h *ExaminationHandler) HandleRecordROM(c *gin.Context) {
	var req types.RecordROMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	m, err := h.exams.RecordROM(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(examErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Measurement recorded",
		Data:    m,
	})
}

func (h *ExaminationHandler) HandleRecordStrength(c *gin.Context) {
	var req types.RecordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	t, err := h.exams.RecordStrength(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(examErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Strength test recorded",
		Data:    t,
	})
}

func (h *ExaminationHandler) HandleRecordSpecialTest(c *gin.Context) {
	var req types.RecordSpecialTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	t, err := h.exams.RecordSpecialTest(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(examErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Special test recorded",
		Data:    t,
	})
}

func (h *ExaminationHandler) HandleComplete(c *gin.Context) {
	exam, err := h.exams.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(examErrorStatus(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Examination completed",
		Data:    exam,
	})
}

func examErrorStatus(err error) int {
	if err == service.ErrExaminationClosed {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
