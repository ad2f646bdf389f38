package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/service"
)

// StatusHandler streams analysis progress over a websocket.
type StatusHandler struct {
	hub *service.ProgressHub
}

func NewStatusHandler(hub *service.ProgressHub) *StatusHandler {
	return &StatusHandler{
		hub: hub,
	}
}

func (h *StatusHandler) HandleAnalysisProgress(c *gin.Context) {
	h.hub.HandleProgress(c.Writer, c.Request, c.Param("documentId"))
}
