package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/services"
)

type fakeAnalysisService struct {
	names       []string
	textResult  models.Analysis
	textErr     error
	feedResults []models.Analysis
	feedErr     error
	history     []models.Analysis
	historyErr  error

	gotModel  string
	gotHandle string
	gotCount  int
}

func (f *fakeAnalysisService) ModelNames() []string { return f.names }
func (f *fakeAnalysisService) AnalyzeText(userID, modelName, text string) (models.Analysis, error) {
	f.gotModel = modelName
	return f.textResult, f.textErr
}
func (f *fakeAnalysisService) AnalyzeFeed(ctx context.Context, userID, modelName, handle string, count int) ([]models.Analysis, error) {
	f.gotModel, f.gotHandle, f.gotCount = modelName, handle, count
	return f.feedResults, f.feedErr
}
func (f *fakeAnalysisService) AnalyzeWatched(ctx context.Context, watch models.Watch) ([]models.Analysis, error) {
	return nil, nil
}
func (f *fakeAnalysisService) RecentAnalyses(userID string, limit int) ([]models.Analysis, error) {
	return f.history, f.historyErr
}

func TestListModelsHandler(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalysisService{names: []string{"logistic", "naivebayes", "svm"}})
	rec := httptest.NewRecorder()
	h.ListModels(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":["logistic","naivebayes","svm"]}`, rec.Body.String())
}

func TestAnalyzeTextHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAnalysisService{textResult: models.Analysis{ID: "a-1", Sentiment: models.SentimentPositive}}
		h := NewAnalysisHandler(svc)
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/text",
			strings.NewReader(`{"model":"logistic","text":"great stuff"}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeText(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"sentiment":"positive"`)
		assert.Equal(t, "logistic", svc.gotModel)
	})

	t.Run("missing model artifact is fatal for the request", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{textErr: errors.New(`model "svm": open artifact: no such file`)})
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/text",
			strings.NewReader(`{"model":"svm","text":"anything"}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeText(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{})
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/text",
			strings.NewReader(`{"model":"logistic"}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeText(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyzeFeedHandler(t *testing.T) {
	t.Run("per-post results", func(t *testing.T) {
		svc := &fakeAnalysisService{feedResults: []models.Analysis{
			{Text: "nice", Sentiment: models.SentimentPositive},
			{Text: "awful", Sentiment: models.SentimentNegative},
		}}
		h := NewAnalysisHandler(svc)
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/feed",
			strings.NewReader(`{"model":"logistic","handle":"someone","count":2}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeFeed(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp FeedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 2)
		assert.Empty(t, resp.Message)
		assert.Equal(t, 2, svc.gotCount)
	})

	t.Run("zero posts is informational, not an error", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{feedResults: []models.Analysis{}})
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/feed",
			strings.NewReader(`{"model":"logistic","handle":"quiet"}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeFeed(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp FeedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Results)
		assert.Contains(t, resp.Message, "No posts found")
	})

	t.Run("fetcher not configured degrades to a warning", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{feedErr: services.ErrFeedNotConfigured})
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/feed",
			strings.NewReader(`{"model":"logistic","handle":"someone"}`)), "u-1")
		rec := httptest.NewRecorder()
		h.AnalyzeFeed(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp FeedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Results)
		assert.Contains(t, resp.Message, "not configured")
	})

	t.Run("defaults the count", func(t *testing.T) {
		svc := &fakeAnalysisService{}
		h := NewAnalysisHandler(svc)
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/analysis/feed",
			strings.NewReader(`{"model":"logistic","handle":"someone"}`)), "u-1")
		h.AnalyzeFeed(httptest.NewRecorder(), req)

		assert.Equal(t, defaultFeedCount, svc.gotCount)
	})
}

func TestHistoryHandler(t *testing.T) {
	t.Run("returns rows", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{history: []models.Analysis{{ID: "a-1"}}})
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/analysis/history", nil), "u-1")
		rec := httptest.NewRecorder()
		h.History(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"a-1"`)
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		h := NewAnalysisHandler(&fakeAnalysisService{})
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/analysis/history", nil), "u-1")
		rec := httptest.NewRecorder()
		h.History(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}
