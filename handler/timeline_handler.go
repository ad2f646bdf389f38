package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
)

type TimelineHandler struct {
	timeline *service.TimelineService
}

func NewTimelineHandler(timeline *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{
		timeline: timeline,
	}
}

func (h *TimelineHandler) HandleAddEvent(c *gin.Context) {
	var req types.AddTimelineEventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EventDate == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "event_date and title are required",
		})
		return
	}
	event, err := h.timeline.AddEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Event added",
		Data:    event,
	})
}

func (h *TimelineHandler) HandleListEvents(c *gin.Context) {
	var eventTypes []string
	if raw := c.Query("event_types"); raw != "" {
		eventTypes = strings.Split(raw, ",")
	}
	milestonesOnly := c.Query("milestones") == "true"

	events, err := h.timeline.ListEvents(c.Request.Context(), c.Param("id"), eventTypes, milestonesOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Timeline events",
		Data:    events,
	})
}

// HandleRebuild projects the case's extracted clinical dates onto the
// timeline.
func (h *TimelineHandler) HandleRebuild(c *gin.Context) {
	events, err := h.timeline.RebuildFromDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Timeline rebuilt",
		Data:    events,
	})
}

func (h *TimelineHandler) HandleDeleteEvent(c *gin.Context) {
	if err := h.timeline.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "Event not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Event deleted",
	})
}
