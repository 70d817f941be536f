package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/storage"
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	store      storage.Store
	summarizer services.Summarizer
	logger     *slog.Logger
}

func NewHealthHandler(store storage.Store, summarizer services.Summarizer, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// ServeHTTP reports storage and summarizer health. Only storage decides the
// status code; the summarizer is optional and shows as "unconfigured".
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Storage health check failed", "error", err)
		components["storage"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["storage"] = "healthy"
	}

	if err := h.summarizer.Ready(ctx); err != nil {
		components["summarizer"] = "unconfigured"
	} else {
		components["summarizer"] = "healthy"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "wild-trails",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, statusCode, response)
}
