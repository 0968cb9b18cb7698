package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/sentiment-be/internal/content"
	"github.com/lmoretti/sentiment-be/internal/ml"
	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/websocket"
)

// ErrFeedNotConfigured is surfaced when the remote input mode is used
// without a configured feed source. Handlers render it as a warning, not
// a failure.
var ErrFeedNotConfigured = content.ErrNotConfigured

// AnalysisServiceProvider defines the interface for analysis services.
type AnalysisServiceProvider interface {
	ModelNames() []string
	AnalyzeText(userID, modelName, text string) (models.Analysis, error)
	AnalyzeFeed(ctx context.Context, userID, modelName, handle string, count int) ([]models.Analysis, error)
	AnalyzeWatched(ctx context.Context, watch models.Watch) ([]models.Analysis, error)
	RecentAnalyses(userID string, limit int) ([]models.Analysis, error)
}

// AnalysisService composes the model registry, text cleaning and the
// content sources into the prediction pipeline, persisting every result.
type AnalysisService struct {
	db       *sql.DB
	registry *ml.Registry
	fetcher  content.Fetcher
	hub      *websocket.Hub
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *sql.DB, registry *ml.Registry, fetcher content.Fetcher, hub *websocket.Hub) *AnalysisService {
	return &AnalysisService{db: db, registry: registry, fetcher: fetcher, hub: hub}
}

// ModelNames lists the configured model names.
func (s *AnalysisService) ModelNames() []string {
	return s.registry.Names()
}

// AnalyzeText classifies a single caller-supplied sample.
func (s *AnalysisService) AnalyzeText(userID, modelName, text string) (models.Analysis, error) {
	bundle, err := s.registry.Load(modelName)
	if err != nil {
		return models.Analysis{}, err
	}
	return s.record(userID, models.SourceText, bundle, text)
}

// AnalyzeFeed fetches recent posts for a handle and classifies each one.
// An unavailable fetch (other than a missing configuration) degrades to
// an empty result rather than an error.
func (s *AnalysisService) AnalyzeFeed(ctx context.Context, userID, modelName, handle string, count int) ([]models.Analysis, error) {
	bundle, err := s.registry.Load(modelName)
	if err != nil {
		return nil, err
	}

	posts, err := s.fetcher.Fetch(ctx, handle, count)
	if err != nil {
		if errors.Is(err, content.ErrNotConfigured) {
			return nil, err
		}
		log.Warn().Err(err).Str("handle", handle).Msg("Feed fetch failed, returning empty result")
		return []models.Analysis{}, nil
	}

	results := make([]models.Analysis, 0, len(posts))
	for _, post := range posts {
		analysis, err := s.record(userID, models.SourceFeed, bundle, post.Text)
		if err != nil {
			return nil, err
		}
		results = append(results, analysis)
	}
	return results, nil
}

// AnalyzeWatched runs the pipeline for a scheduled watch. Same flow as
// AnalyzeFeed but tagged with the watch source.
func (s *AnalysisService) AnalyzeWatched(ctx context.Context, watch models.Watch) ([]models.Analysis, error) {
	bundle, err := s.registry.Load(watch.Model)
	if err != nil {
		return nil, err
	}

	posts, err := s.fetcher.Fetch(ctx, watch.Handle, 5)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", watch.ID, err)
	}

	results := make([]models.Analysis, 0, len(posts))
	for _, post := range posts {
		analysis, err := s.record(watch.UserID, models.SourceWatch, bundle, post.Text)
		if err != nil {
			return nil, err
		}
		results = append(results, analysis)
	}
	return results, nil
}

// RecentAnalyses returns the caller's most recent history rows.
func (s *AnalysisService) RecentAnalyses(userID string, limit int) ([]models.Analysis, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, model, source, text, sentiment, created_at
		FROM analyses WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var a models.Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Model, &a.Source, &a.Text, &a.Sentiment, &a.CreatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// record predicts one sample, persists the result and pushes it to the
// user's live feed.
func (s *AnalysisService) record(userID, source string, bundle *ml.Bundle, text string) (models.Analysis, error) {
	analysis := models.Analysis{
		ID:        uuid.New().String(),
		UserID:    userID,
		Model:     bundle.Name,
		Source:    source,
		Text:      text,
		Sentiment: bundle.Predict(text),
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO analyses (id, user_id, model, source, text, sentiment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Analysis{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(analysis.ID, analysis.UserID, analysis.Model, analysis.Source, analysis.Text, analysis.Sentiment, analysis.CreatedAt); err != nil {
		return models.Analysis{}, err
	}

	if s.hub != nil {
		s.hub.BroadcastTo(userID, websocket.NewAnalysisMessage(analysis))
	}
	return analysis, nil
}
