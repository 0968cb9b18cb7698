package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/sentiment-be/internal/auth"
	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/services"
)

const (
	defaultFeedCount   = 5
	defaultHistorySize = 50
)

// AnalysisHandler handles HTTP requests for the sentiment pipeline.
type AnalysisHandler struct {
	service services.AnalysisServiceProvider
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(service services.AnalysisServiceProvider) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// TextPayload defines the structure for direct text analysis requests.
type TextPayload struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

// FeedPayload defines the structure for feed analysis requests.
type FeedPayload struct {
	Model  string `json:"model"`
	Handle string `json:"handle"`
	Count  int    `json:"count"`
}

// FeedResponse wraps the per-post results with an informational message
// when the fetch produced nothing.
type FeedResponse struct {
	Results []models.Analysis `json:"results"`
	Message string            `json:"message,omitempty"`
}

// ListModels returns the configured model names.
func (h *AnalysisHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"models": h.service.ModelNames()})
}

// AnalyzeText classifies a single caller-supplied sample.
func (h *AnalysisHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload TextPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Model == "" || payload.Text == "" {
		http.Error(w, "Model and text are required", http.StatusBadRequest)
		return
	}

	analysis, err := h.service.AnalyzeText(claims.UserID, payload.Model, payload.Text)
	if err != nil {
		log.Error().Err(err).Str("model", payload.Model).Msg("Text analysis failed")
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

// AnalyzeFeed fetches recent posts for a handle and classifies each one.
// An empty or unavailable fetch is an informational outcome, not an
// error status.
func (h *AnalysisHandler) AnalyzeFeed(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload FeedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Model == "" || payload.Handle == "" {
		http.Error(w, "Model and handle are required", http.StatusBadRequest)
		return
	}
	if payload.Count <= 0 || payload.Count > 50 {
		payload.Count = defaultFeedCount
	}

	w.Header().Set("Content-Type", "application/json")

	results, err := h.service.AnalyzeFeed(r.Context(), claims.UserID, payload.Model, payload.Handle, payload.Count)
	if err != nil {
		if errors.Is(err, services.ErrFeedNotConfigured) {
			json.NewEncoder(w).Encode(FeedResponse{
				Results: []models.Analysis{},
				Message: "Feed source not configured. Remote analysis unavailable.",
			})
			return
		}
		log.Error().Err(err).Str("model", payload.Model).Str("handle", payload.Handle).Msg("Feed analysis failed")
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := FeedResponse{Results: results}
	if len(results) == 0 {
		resp.Results = []models.Analysis{}
		resp.Message = "No posts found or failed to fetch."
	}
	json.NewEncoder(w).Encode(resp)
}

// History returns the caller's recent analyses.
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	limit := defaultHistorySize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	analyses, err := h.service.RecentAnalyses(claims.UserID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load analysis history")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []models.Analysis{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analyses)
}
