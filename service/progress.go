package service

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/types"
)

// ProgressPublisher receives pipeline state transitions as they happen.
type ProgressPublisher interface {
	Publish(status types.ProcessingStatus)
}

// ProgressHub fans analysis progress out to websocket subscribers, keyed
// by document ID. Slow subscribers are dropped rather than blocking the
// pipeline.
type ProgressHub struct {
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	mu          sync.RWMutex
	subscribers map[string][]chan types.ProcessingStatus
}

func NewProgressHub(logger zerolog.Logger) *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger:      logger.With().Str("component", "progress_hub").Logger(),
		subscribers: make(map[string][]chan types.ProcessingStatus),
	}
}

func (h *ProgressHub) Publish(status types.ProcessingStatus) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers[status.DocumentID] {
		select {
		case ch <- status:
		default:
		}
	}
}

func (h *ProgressHub) subscribe(documentID string) chan types.ProcessingStatus {
	ch := make(chan types.ProcessingStatus, 16)
	h.mu.Lock()
	h.subscribers[documentID] = append(h.subscribers[documentID], ch)
	h.mu.Unlock()
	return ch
}

func (h *ProgressHub) unsubscribe(documentID string, ch chan types.ProcessingStatus) {
	h.mu.Lock()
	subs := h.subscribers[documentID]
	for i, sub := range subs {
		if sub == ch {
			h.subscribers[documentID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(h.subscribers[documentID]) == 0 {
		delete(h.subscribers, documentID)
	}
	h.mu.Unlock()
}

// HandleProgress upgrades the connection and streams progress events for
// one document until the analysis reaches a terminal state or the client
// disconnects.
func (h *ProgressHub) HandleProgress(w http.ResponseWriter, r *http.Request, documentID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := h.subscribe(documentID)
	defer h.unsubscribe(documentID, ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case status := <-ch:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(status); err != nil {
				return
			}
			if status.State == types.AnalysisStateDone || status.State == types.AnalysisStateFailed {
				return
			}
		}
	}
}
