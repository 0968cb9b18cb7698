package services

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/sentiment-be/internal/config"
	"github.com/lmoretti/sentiment-be/internal/content"
	"github.com/lmoretti/sentiment-be/internal/ml"
	"github.com/lmoretti/sentiment-be/internal/models"
)

// newTestRegistry writes a minimal logistic artifact pair and returns a
// registry serving it. The weights make "good" positive and "bad"
// negative.
func newTestRegistry(t *testing.T) *ml.Registry {
	t.Helper()
	dir := t.TempDir()
	pair := config.ArtifactPair{
		ClassifierPath: filepath.Join(dir, "logistic_model"),
		VectorizerPath: filepath.Join(dir, "logistic_vectorizer"),
	}

	clf := ml.Classifier{
		Kind:          ml.KindLinear,
		Weights:       []float64{1.5, -1.5},
		PositiveClass: 1,
	}
	vec := ml.Vectorizer{
		Vocabulary: map[string]int{"good": 0, "bad": 1},
		Idf:        []float64{1, 1},
	}
	encodeGob(t, pair.ClassifierPath, clf)
	encodeGob(t, pair.VectorizerPath, vec)

	return ml.NewRegistry(map[string]config.ArtifactPair{"logistic": pair})
}

func encodeGob(t *testing.T, path string, v interface{}) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gob.NewEncoder(f).Encode(v))
}

type stubFetcher struct {
	posts []content.Post
	err   error
}

func (f stubFetcher) Fetch(ctx context.Context, handle string, count int) ([]content.Post, error) {
	return f.posts, f.err
}

func TestAnalyzeText(t *testing.T) {
	svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), content.Disabled{}, nil)

	analysis, err := svc.AnalyzeText("u-1", "logistic", "What a good day!")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, analysis.Sentiment)
	assert.Equal(t, models.SourceText, analysis.Source)
	assert.Equal(t, "logistic", analysis.Model)

	analysis, err = svc.AnalyzeText("u-1", "logistic", "a very bad day")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, analysis.Sentiment)
}

func TestAnalyzeTextUnknownModel(t *testing.T) {
	svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), content.Disabled{}, nil)
	_, err := svc.AnalyzeText("u-1", "nope", "text")
	assert.ErrorContains(t, err, "unknown model")
}

func TestAnalyzeFeed(t *testing.T) {
	fetcher := stubFetcher{posts: []content.Post{
		{Text: "good stuff"},
		{Text: "bad stuff"},
	}}
	svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), fetcher, nil)

	results, err := svc.AnalyzeFeed(context.Background(), "u-1", "logistic", "someone", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, models.SentimentPositive, results[0].Sentiment)
	assert.Equal(t, models.SentimentNegative, results[1].Sentiment)
	for _, r := range results {
		assert.Equal(t, models.SourceFeed, r.Source)
	}
}

func TestAnalyzeFeedEmptyAndFailed(t *testing.T) {
	t.Run("zero posts yields zero predictions", func(t *testing.T) {
		svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), stubFetcher{}, nil)
		results, err := svc.AnalyzeFeed(context.Background(), "u-1", "logistic", "quiet", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("fetch failure degrades to empty result", func(t *testing.T) {
		svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), stubFetcher{err: errors.New("boom")}, nil)
		results, err := svc.AnalyzeFeed(context.Background(), "u-1", "logistic", "down", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("missing configuration is surfaced", func(t *testing.T) {
		svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), content.Disabled{}, nil)
		_, err := svc.AnalyzeFeed(context.Background(), "u-1", "logistic", "anyone", 5)
		assert.ErrorIs(t, err, ErrFeedNotConfigured)
	})
}

func TestRecentAnalyses(t *testing.T) {
	svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), content.Disabled{}, nil)

	_, err := svc.AnalyzeText("u-1", "logistic", "good")
	require.NoError(t, err)
	_, err = svc.AnalyzeText("u-1", "logistic", "bad")
	require.NoError(t, err)
	_, err = svc.AnalyzeText("u-2", "logistic", "good")
	require.NoError(t, err)

	mine, err := svc.RecentAnalyses("u-1", 50)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	limited, err := svc.RecentAnalyses("u-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAnalyzeWatched(t *testing.T) {
	fetcher := stubFetcher{posts: []content.Post{{Text: "good news"}}}
	svc := NewAnalysisService(newTestDB(t), newTestRegistry(t), fetcher, nil)

	watch := models.Watch{ID: "w-1", UserID: "u-1", Handle: "someone", Model: "logistic"}
	results, err := svc.AnalyzeWatched(context.Background(), watch)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.SourceWatch, results[0].Source)
}
