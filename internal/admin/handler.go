// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/acadmix/server/internal/core"
)

// Handler exposes operational stats for super admins: record counts per
// table plus connection-pool and runtime numbers.
type Handler struct {
	db         *sqlx.DB
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
}

type HandlerConfig struct {
	DB         *sqlx.DB
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		db:         cfg.DB,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, superAdminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(superAdminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/records", h.GetRecordCounts)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil && h.dbPing(ctx) != nil {
		dbHealthy = false
	}
	redisHealthy := true
	if h.redisPing != nil && h.redisPing(ctx) != nil {
		redisHealthy = false
	}

	counts, err := h.recordCounts(ctx)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	response := SystemStatsResponse{
		Database: DatabaseStatus{Healthy: dbHealthy, Stats: h.getDBStats()},
		Redis:    RedisStatus{Healthy: redisHealthy, Stats: h.getRedisStats()},
		Records:  counts,
		Runtime:  currentRuntimeStats(),
	}
	core.OK(w, "system stats retrieved successfully", response)
}

func (h *Handler) GetRecordCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.recordCounts(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "record counts retrieved successfully", counts)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "database stats retrieved successfully", h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "redis stats retrieved successfully", h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "runtime stats retrieved successfully", currentRuntimeStats())
}

func (h *Handler) recordCounts(ctx context.Context) (*RecordCounts, error) {
	if h.db == nil {
		return nil, nil
	}

	var counts RecordCounts
	err := h.db.GetContext(ctx, &counts, `
		SELECT
			(SELECT count(*) FROM users) AS users,
			(SELECT count(*) FROM students) AS students,
			(SELECT count(*) FROM institutes) AS institutes,
			(SELECT count(*) FROM courses) AS courses,
			(SELECT count(*) FROM results) AS results`)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	return &counts, nil
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func currentRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Records  *RecordCounts  `json:"records,omitempty"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type RecordCounts struct {
	Users      int64 `db:"users" json:"users"`
	Students   int64 `db:"students" json:"students"`
	Institutes int64 `db:"institutes" json:"institutes"`
	Courses    int64 `db:"courses" json:"courses"`
	Results    int64 `db:"results" json:"results"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
