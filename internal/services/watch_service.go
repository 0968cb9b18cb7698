package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/lmoretti/sentiment-be/internal/models"
)

// WatchServiceProvider defines the interface for watch services.
type WatchServiceProvider interface {
	CreateWatch(watch models.Watch) (models.Watch, error)
	GetWatchesForUser(userID string) ([]models.Watch, error)
	GetWatchByID(watchID string) (models.Watch, error)
	GetAllActiveWatches() ([]models.Watch, error)
	DeleteWatch(watchID string) error
	UpdateWatchRunTimes(watchID string, lastRun time.Time, nextRun time.Time) error
}

// WatchService provides business logic for recurring feed watches.
type WatchService struct {
	db *sql.DB
}

// NewWatchService creates a new WatchService.
func NewWatchService(db *sql.DB) *WatchService {
	return &WatchService{db: db}
}

// CreateWatch validates and saves a new watch, computing its first run.
func (s *WatchService) CreateWatch(watch models.Watch) (models.Watch, error) {
	cronSchedule, err := cron.ParseStandard(watch.CronExpression)
	if err != nil {
		return models.Watch{}, fmt.Errorf("invalid cron expression: %w", err)
	}

	watch.ID = uuid.New().String()
	nextRun := cronSchedule.Next(time.Now())
	watch.NextRunAt = &nextRun

	stmt, err := s.db.Prepare(`
		INSERT INTO watches (id, user_id, handle, model, cron_expression, is_active, next_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Watch{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(watch.ID, watch.UserID, watch.Handle, watch.Model, watch.CronExpression, watch.IsActive, watch.NextRunAt)
	if err != nil {
		return models.Watch{}, err
	}
	return s.GetWatchByID(watch.ID)
}

// GetWatchesForUser retrieves all watches belonging to a user.
func (s *WatchService) GetWatchesForUser(userID string) ([]models.Watch, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, handle, model, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM watches WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanWatches(rows)
}

// GetWatchByID retrieves a single watch by its ID.
func (s *WatchService) GetWatchByID(watchID string) (models.Watch, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, handle, model, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM watches WHERE id = ?`, watchID)
	return s.scanWatch(row)
}

// GetAllActiveWatches retrieves every active watch across all users.
func (s *WatchService) GetAllActiveWatches() ([]models.Watch, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, handle, model, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM watches WHERE is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanWatches(rows)
}

// DeleteWatch removes a watch.
func (s *WatchService) DeleteWatch(watchID string) error {
	if _, err := s.GetWatchByID(watchID); err != nil {
		return fmt.Errorf("could not find watch to delete: %w", err)
	}
	_, err := s.db.Exec("DELETE FROM watches WHERE id = ?", watchID)
	return err
}

// UpdateWatchRunTimes updates the last and next run times after a watch
// executes.
func (s *WatchService) UpdateWatchRunTimes(watchID string, lastRun time.Time, nextRun time.Time) error {
	_, err := s.db.Exec("UPDATE watches SET last_run_at = ?, next_run_at = ? WHERE id = ?", lastRun, nextRun, watchID)
	return err
}

// scanWatches is a helper to scan multiple rows into a slice of Watches.
func (s *WatchService) scanWatches(rows *sql.Rows) ([]models.Watch, error) {
	var watches []models.Watch
	for rows.Next() {
		watch, err := s.scanWatch(rows)
		if err != nil {
			return nil, err
		}
		watches = append(watches, watch)
	}
	return watches, rows.Err()
}

// scanWatch is a helper to scan a single row into a Watch struct.
func (s *WatchService) scanWatch(scanner interface{ Scan(...interface{}) error }) (models.Watch, error) {
	var watch models.Watch
	err := scanner.Scan(
		&watch.ID,
		&watch.UserID,
		&watch.Handle,
		&watch.Model,
		&watch.CronExpression,
		&watch.IsActive,
		&watch.LastRunAt,
		&watch.NextRunAt,
		&watch.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Watch{}, fmt.Errorf("watch not found")
		}
		return models.Watch{}, err
	}
	return watch, nil
}
