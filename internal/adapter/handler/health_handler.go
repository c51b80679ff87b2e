package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"marketdash/internal/domain/port"
)

// SourcesFunc reports the names of the currently active stream sources.
type SourcesFunc func() []string

type HealthHandler struct {
	storage port.StoragePort
	cache   port.CachePort
	sources SourcesFunc
	logger  *slog.Logger
}

func NewHealthHandler(storage port.StoragePort, cache port.CachePort, sources SourcesFunc, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		cache:   cache,
		sources: sources,
		logger:  logger,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	redisStatus := "healthy"
	streamStatus := "healthy"
	overallStatus := "healthy"

	if err := h.storage.Ping(r.Context()); err != nil {
		dbStatus = "unhealthy"
		overallStatus = "degraded"
		h.logger.Warn("database health check failed", "error", err)
	}

	if err := h.cache.Ping(r.Context()); err != nil {
		redisStatus = "unhealthy"
		overallStatus = "degraded"
		h.logger.Warn("redis health check failed", "error", err)
	}

	names := []string{}
	if h.sources != nil {
		names = h.sources()
	}
	if len(names) == 0 {
		streamStatus = "unhealthy"
		overallStatus = "degraded"
		h.logger.Warn("no active stream sources")
	}

	response := map[string]any{
		"status": overallStatus,
		"checks": map[string]string{
			"database": dbStatus,
			"redis":    redisStatus,
			"stream":   streamStatus,
		},
		"stream_sources": names,
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
