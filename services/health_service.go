package services

import (
	"context"
	"lager_server/database"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type serverHealthStatus struct {
	Uptime        float64   `json:"uptime"`        // in seconds
	CurrentTime   time.Time `json:"current_time"`  // server current time
	ServiceAlive  bool      `json:"service_alive"` // always true if service is running
	CameraEnabled bool      `json:"camera_enabled"`
	RamStats      *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type databaseHealthStatus struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	OpenConns      int       `json:"open_conns"`
	InUse          int       `json:"in_use"`
}

type cacheHealthStatus struct {
	Enabled        bool           `json:"enabled"`
	Connected      bool           `json:"connected"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Pool           map[string]any `json:"pool"`
}

type HealthService struct {
	logger        *gecho.Logger
	db            *database.DB
	cache         *CacheService
	cameraEnabled bool
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService, cameraEnabled bool) *HealthService {
	return &HealthService{
		logger:        logger,
		db:            db,
		cache:         cache,
		cameraEnabled: cameraEnabled,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:        time.Since(uptimeStart).Seconds(),
		CurrentTime:   time.Now(),
		ServiceAlive:  true,
		CameraEnabled: hs.cameraEnabled,
		RamStats:      getRamStats(),
	}
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, error) {
	start := time.Now()
	err := hs.db.Health(ctx)
	elapsed := time.Since(start).Milliseconds()

	stats := hs.db.GetStats()
	dbStatus := databaseHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: elapsed,
		OpenConns:      stats.OpenConnections,
		InUse:          stats.InUse,
	}

	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}

	return dbStatus, err
}

func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (cacheHealthStatus, error) {
	status := cacheHealthStatus{Enabled: hs.cache.Enabled()}
	if !status.Enabled {
		return status, nil
	}

	start := time.Now()
	err := hs.cache.Ping(ctx)
	status.ResponseTimeMs = time.Since(start).Milliseconds()
	status.Connected = err == nil
	status.Pool = hs.cache.GetConnectionStats()

	if err != nil {
		hs.logger.Error("Cache health check failed", gecho.Field("error", err))
	}
	return status, err
}
