package handler

import (
	"context"
	"log/slog"
	"net/http"

	"marketdash/internal/domain/port"
)

type AnalyzerHandler struct {
	client port.AnalyzerPort
	logger *slog.Logger
}

func NewAnalyzerHandler(client port.AnalyzerPort, logger *slog.Logger) *AnalyzerHandler {
	return &AnalyzerHandler{
		client: client,
		logger: logger,
	}
}

func (h *AnalyzerHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "status", h.client.Status)
}

func (h *AnalyzerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "pause", h.client.Pause)
}

func (h *AnalyzerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "resume", h.client.Resume)
}

func (h *AnalyzerHandler) proxy(w http.ResponseWriter, r *http.Request, action string,
	call func(context.Context) (map[string]port.AnalyzerStatus, error)) {

	analyzers, err := call(r.Context())
	if err != nil {
		h.logger.Error("analyzer call failed", "action", action, "error", err)
		http.Error(w, "analyzer unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]any{"analyzers": analyzers})
}
