package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/services"
)

// Scheduler checks for and executes due feed watches.
type Scheduler struct {
	watchSvc    services.WatchServiceProvider
	analysisSvc services.AnalysisServiceProvider
	ticker      *time.Ticker
	done        chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(watchSvc services.WatchServiceProvider, analysisSvc services.AnalysisServiceProvider) *Scheduler {
	return &Scheduler{
		watchSvc:    watchSvc,
		analysisSvc: analysisSvc,
		done:        make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background watch scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndRunWatches()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background watch scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndRunWatches()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndRunWatches queries for due watches and executes them.
func (s *Scheduler) checkAndRunWatches() {
	watches, err := s.watchSvc.GetAllActiveWatches()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to retrieve active watches")
		return
	}

	for _, watch := range watches {
		cronSchedule, err := cron.ParseStandard(watch.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("watch_id", watch.ID).Msg("Scheduler: invalid cron expression")
			continue
		}

		now := time.Now()
		// If NextRunAt is in the past, it's time to run
		if watch.NextRunAt != nil && now.After(*watch.NextRunAt) {
			go s.executeWatch(watch)

			// Update the times for the next run
			if err := s.watchSvc.UpdateWatchRunTimes(watch.ID, now, cronSchedule.Next(now)); err != nil {
				log.Error().Err(err).Str("watch_id", watch.ID).Msg("Scheduler: failed to update run times")
			}
		}
	}
}

// executeWatch runs the analysis pipeline for one due watch.
func (s *Scheduler) executeWatch(watch models.Watch) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := s.analysisSvc.AnalyzeWatched(ctx, watch)
	if err != nil {
		log.Error().Err(err).Str("watch_id", watch.ID).Str("handle", watch.Handle).Msg("Scheduler: watch execution failed")
		return
	}
	log.Info().Str("watch_id", watch.ID).Str("handle", watch.Handle).Int("results", len(results)).Msg("Scheduler: watch executed")
}
