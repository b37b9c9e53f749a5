// Package handler provides the debug server endpoints.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/finsight-ai/stockchat-client/internal/chat"
)

// HealthHandler reports liveness and readiness of the chat client.
type HealthHandler struct {
	client *chat.Client
}

// NewHealthHandler creates a health handler over the chat client.
func NewHealthHandler(client *chat.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /readyz. Ready means the websocket session is open.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.client == nil || !h.client.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "chat session not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"streaming": boolString(h.client.IsStreaming()),
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
