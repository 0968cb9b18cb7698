package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lmoretti/sentiment-be/internal/monitoring"
)

// SystemHandler exposes host resource usage for the deployed instance.
type SystemHandler struct {
	updater *monitoring.StatUpdater
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(updater *monitoring.StatUpdater) *SystemHandler {
	return &SystemHandler{updater: updater}
}

// Status returns the latest host stats snapshot.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.updater.Latest())
}
