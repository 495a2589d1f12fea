// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/leasehub/backend/internal/analytics"
	"github.com/leasehub/backend/internal/core"
)

// HandlerConfig wires the operational surfaces the stats endpoints report
// on. Stats funcs may be nil; the corresponding section is omitted.
type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Analytics  *analytics.Service
}

type Handler struct {
	cfg       HandlerConfig
	startedAt time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the stats endpoints. Access control is the
// caller's responsibility; these routes expose pool internals and
// system-wide counts.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Get("/", h.Overview)
		r.Get("/db", h.DBStats)
		r.Get("/redis", h.RedisStats)
		r.Get("/runtime", h.RuntimeStats)
		r.Get("/entities", h.EntityCounts)
	})
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview := OverviewResponse{
		Uptime:  time.Since(h.startedAt).String(),
		Runtime: collectRuntimeStats(),
	}

	if h.cfg.DBPing != nil {
		overview.DatabaseUp = h.cfg.DBPing(ctx) == nil
	}
	if h.cfg.RedisPing != nil {
		overview.RedisUp = h.cfg.RedisPing(ctx) == nil
	}

	if h.cfg.Analytics != nil {
		counts, err := h.cfg.Analytics.SystemCounts(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		overview.Entities = counts
	}

	core.OK(w, overview)
}

func (h *Handler) DBStats(w http.ResponseWriter, r *http.Request) {
	if h.cfg.DBStats == nil {
		core.NotFound(w, "database stats")
		return
	}

	stats := h.cfg.DBStats()
	core.OK(w, DBPoolStats{
		OpenConnections:   stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration.String(),
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	})
}

func (h *Handler) RedisStats(w http.ResponseWriter, r *http.Request) {
	if h.cfg.RedisStats == nil {
		core.NotFound(w, "redis stats")
		return
	}

	stats := h.cfg.RedisStats()
	core.OK(w, RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	})
}

func (h *Handler) RuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, collectRuntimeStats())
}

// EntityCounts reports row counts for the core domain tables, the quickest
// read on how much data the deployment is carrying.
func (h *Handler) EntityCounts(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Analytics == nil {
		core.NotFound(w, "entity counts")
		return
	}

	counts, err := h.cfg.Analytics.SystemCounts(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, counts)
}

func collectRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		AllocBytes:   mem.Alloc,
		SysBytes:     mem.Sys,
		NumGC:        mem.NumGC,
	}
}

type OverviewResponse struct {
	Uptime     string                  `json:"uptime"`
	DatabaseUp bool                    `json:"database_up"`
	RedisUp    bool                    `json:"redis_up"`
	Runtime    RuntimeStats            `json:"runtime"`
	Entities   *analytics.SystemCounts `json:"entities,omitempty"`
}

type DBPoolStats struct {
	OpenConnections   int    `json:"open_connections"`
	InUse             int    `json:"in_use"`
	Idle              int    `json:"idle"`
	WaitCount         int64  `json:"wait_count"`
	WaitDuration      string `json:"wait_duration"`
	MaxIdleClosed     int64  `json:"max_idle_closed"`
	MaxLifetimeClosed int64  `json:"max_lifetime_closed"`
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
	AllocBytes   uint64 `json:"alloc_bytes"`
	SysBytes     uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
