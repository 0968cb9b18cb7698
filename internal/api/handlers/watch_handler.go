package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/sentiment-be/internal/auth"
	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/services"
)

// WatchHandler handles HTTP requests for recurring feed watches.
type WatchHandler struct {
	service services.WatchServiceProvider
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(service services.WatchServiceProvider) *WatchHandler {
	return &WatchHandler{service: service}
}

// WatchPayload defines the structure for watch creation requests.
type WatchPayload struct {
	Handle         string `json:"handle"`
	Model          string `json:"model"`
	CronExpression string `json:"cronExpression"`
}

// List returns the caller's watches.
func (h *WatchHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	watches, err := h.service.GetWatchesForUser(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list watches")
		http.Error(w, "Failed to list watches", http.StatusInternalServerError)
		return
	}
	if watches == nil {
		watches = []models.Watch{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(watches)
}

// Create registers a new watch for the caller.
func (h *WatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload WatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Handle == "" || payload.Model == "" || payload.CronExpression == "" {
		http.Error(w, "Handle, model and cronExpression are required", http.StatusBadRequest)
		return
	}

	watch, err := h.service.CreateWatch(models.Watch{
		UserID:         claims.UserID,
		Handle:         payload.Handle,
		Model:          payload.Model,
		CronExpression: payload.CronExpression,
		IsActive:       true,
	})
	if err != nil {
		log.Error().Err(err).Str("handle", payload.Handle).Msg("Failed to create watch")
		http.Error(w, "Failed to create watch: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(watch)
}

// Delete removes one of the caller's watches.
func (h *WatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	watch, err := h.service.GetWatchByID(id)
	if err != nil {
		http.Error(w, "Watch not found", http.StatusNotFound)
		return
	}
	if watch.UserID != claims.UserID {
		http.Error(w, "Watch not found", http.StatusNotFound)
		return
	}

	if err := h.service.DeleteWatch(id); err != nil {
		log.Error().Err(err).Str("watch_id", id).Msg("Failed to delete watch")
		http.Error(w, "Failed to delete watch", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
