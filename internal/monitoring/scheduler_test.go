package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/sentiment-be/internal/models"
)

type fakeWatchService struct {
	watches []models.Watch
	listErr error
	updated map[string][2]time.Time
}

func (f *fakeWatchService) GetAllActiveWatches() ([]models.Watch, error) {
	return f.watches, f.listErr
}
func (f *fakeWatchService) CreateWatch(w models.Watch) (models.Watch, error) { return w, nil }
func (f *fakeWatchService) GetWatchesForUser(string) ([]models.Watch, error) { return nil, nil }
func (f *fakeWatchService) GetWatchByID(string) (models.Watch, error) {
	return models.Watch{}, nil
}
func (f *fakeWatchService) DeleteWatch(string) error { return nil }
func (f *fakeWatchService) UpdateWatchRunTimes(id string, lastRun, nextRun time.Time) error {
	f.updated[id] = [2]time.Time{lastRun, nextRun}
	return nil
}

type fakeAnalysisService struct {
	executed chan models.Watch
}

func (f *fakeAnalysisService) ModelNames() []string { return nil }
func (f *fakeAnalysisService) AnalyzeText(userID, modelName, text string) (models.Analysis, error) {
	return models.Analysis{}, nil
}
func (f *fakeAnalysisService) AnalyzeFeed(ctx context.Context, userID, modelName, handle string, count int) ([]models.Analysis, error) {
	return nil, nil
}
func (f *fakeAnalysisService) AnalyzeWatched(ctx context.Context, watch models.Watch) ([]models.Analysis, error) {
	f.executed <- watch
	return []models.Analysis{{ID: "a-1", UserID: watch.UserID}}, nil
}
func (f *fakeAnalysisService) RecentAnalyses(userID string, limit int) ([]models.Analysis, error) {
	return nil, nil
}

func TestCheckAndRunWatches(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	watchSvc := &fakeWatchService{
		watches: []models.Watch{
			{ID: "w-due", UserID: "u-1", Handle: "a", Model: "logistic", CronExpression: "@hourly", NextRunAt: &past},
			{ID: "w-later", UserID: "u-1", Handle: "b", Model: "logistic", CronExpression: "@hourly", NextRunAt: &future},
			{ID: "w-unscheduled", UserID: "u-1", Handle: "c", Model: "logistic", CronExpression: "@hourly"},
			{ID: "w-bad-cron", UserID: "u-1", Handle: "d", Model: "logistic", CronExpression: "not a cron", NextRunAt: &past},
		},
		updated: make(map[string][2]time.Time),
	}
	analysisSvc := &fakeAnalysisService{executed: make(chan models.Watch, 4)}

	s := NewScheduler(watchSvc, analysisSvc)
	s.checkAndRunWatches()

	// Only the due watch with a valid cron expression runs.
	select {
	case w := <-analysisSvc.executed:
		assert.Equal(t, "w-due", w.ID)
	case <-time.After(time.Second):
		t.Fatal("due watch was not executed")
	}
	select {
	case w := <-analysisSvc.executed:
		t.Fatalf("unexpected execution of watch %s", w.ID)
	case <-time.After(50 * time.Millisecond):
	}

	// And only its run times are advanced, next run landing in the future.
	require.Len(t, watchSvc.updated, 1)
	times, ok := watchSvc.updated["w-due"]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), times[0], time.Minute)
	assert.True(t, times[1].After(time.Now()), "next run must be advanced into the future")
}

func TestCheckAndRunWatchesListFailure(t *testing.T) {
	watchSvc := &fakeWatchService{
		listErr: errors.New("db gone"),
		updated: make(map[string][2]time.Time),
	}
	analysisSvc := &fakeAnalysisService{executed: make(chan models.Watch, 1)}

	s := NewScheduler(watchSvc, analysisSvc)
	s.checkAndRunWatches()

	select {
	case w := <-analysisSvc.executed:
		t.Fatalf("unexpected execution of watch %s", w.ID)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, watchSvc.updated)
}
