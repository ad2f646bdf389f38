package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/middleware"
	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type CaseHandler struct {
	cases *service.CaseService
}

func NewCaseHandler(cases *service.CaseService) *CaseHandler {
	return &CaseHandler{
		cases: cases,
	}
}

func requestUserID(c *gin.Context) string {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.ID
	}
	return ""
}

func (h *CaseHandler) HandleCreateCase(c *gin.Context) {
	var req types.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.PatientFirstName == "" || req.PatientLastName == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "patient_first_name and patient_last_name are required",
		})
		return
	}

	created, err := h.cases.CreateCase(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Case created",
		Data:    created,
	})
}

func (h *CaseHandler) HandleGetCase(c *gin.Context) {
	found, err := h.cases.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Case not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Case found",
		Data:    found,
	})
}

func (h *CaseHandler) HandleListCases(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	filter := repository.CaseFilter{
		Priority:    c.Query("priority"),
		PhysicianID: c.Query("physician_id"),
		Search:      c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = strings.Split(status, ",")
	}

	cases, total, err := h.cases.ListCases(c.Request.Context(), filter, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Cases listed",
		Data: gin.H{
			"cases": cases,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *CaseHandler) HandleUpdateCase(c *gin.Context) {
	var req types.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	updated, err := h.cases.UpdateCase(c.Request.Context(), requestUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Case updated",
		Data:    updated,
	})
}

func (h *CaseHandler) HandleChangeStatus(c *gin.Context) {
	var req types.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "status is required",
		})
		return
	}
	updated, err := h.cases.ChangeStatus(c.Request.Context(), requestUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Status changed",
		Data:    updated,
	})
}

func (h *CaseHandler) HandleStatusHistory(c *gin.Context) {
	history, err := h.cases.StatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Status history",
		Data:    history,
	})
}

func (h *CaseHandler) HandleAssignCase(c *gin.Context) {
	var req types.AssignCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	updated, err := h.cases.AssignCase(c.Request.Context(), requestUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Case assigned",
		Data:    updated,
	})
}

func (h *CaseHandler) HandleDeleteCase(c *gin.Context) {
	archived, err := h.cases.ArchiveCase(c.Request.Context(), requestUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Case archived",
		Data:    archived,
	})
}

func (h *CaseHandler) HandleStats(c *gin.Context) {
	stats, err := h.cases.Stats(c.Request.Context(), c.Query("physician_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Case stats",
		Data:    stats,
	})
}
