package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lmoretti/sentiment-be/internal/websocket"
)

// SystemStats is a snapshot of the host's resource usage.
type SystemStats struct {
	CPUPercent     float64   `json:"cpuPercent"`
	MemUsedPercent float64   `json:"memUsedPercent"`
	MemUsedMB      uint64    `json:"memUsedMb"`
	MemTotalMB     uint64    `json:"memTotalMb"`
	UptimeSeconds  int64     `json:"uptimeSeconds"`
	SampledAt      time.Time `json:"sampledAt"`
}

// StatUpdater periodically samples host stats, keeps the latest snapshot
// for the status endpoint and pushes each sample to connected clients.
type StatUpdater struct {
	hub     *websocket.Hub
	ticker  *time.Ticker
	done    chan bool
	started time.Time

	mu     sync.RWMutex
	latest SystemStats
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(hub *websocket.Hub) *StatUpdater {
	return &StatUpdater{
		hub:     hub,
		done:    make(chan bool),
		started: time.Now(),
	}
}

// Run starts the periodic sampling.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(15 * time.Second)
	defer su.ticker.Stop()

	// Sample once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (su *StatUpdater) Stop() {
	su.done <- true
}

// Latest returns the most recent snapshot.
func (su *StatUpdater) Latest() SystemStats {
	su.mu.RLock()
	defer su.mu.RUnlock()
	return su.latest
}

func (su *StatUpdater) sample() {
	stats := SystemStats{
		UptimeSeconds: int64(time.Since(su.started).Seconds()),
		SampledAt:     time.Now(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample CPU")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
		stats.MemUsedMB = vm.Used / 1024 / 1024
		stats.MemTotalMB = vm.Total / 1024 / 1024
	} else {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample memory")
	}

	su.mu.Lock()
	su.latest = stats
	su.mu.Unlock()

	if su.hub != nil {
		su.hub.Broadcast <- websocket.NewSystemStatsMessage(stats)
	}
}
