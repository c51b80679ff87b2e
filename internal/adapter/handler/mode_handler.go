package handler

import (
	"context"
	"log/slog"
	"net/http"

	"marketdash/internal/application/service"
	"marketdash/internal/domain/model"
)

type SwitchModeFunc func(ctx context.Context, mode model.DataMode) error

type ModeHandler struct {
	modeService *service.ModeService
	switchMode  SwitchModeFunc
	logger      *slog.Logger
}

func NewModeHandler(modeService *service.ModeService, switchMode SwitchModeFunc, logger *slog.Logger) *ModeHandler {
	return &ModeHandler{
		modeService: modeService,
		switchMode:  switchMode,
		logger:      logger,
	}
}

func (h *ModeHandler) SwitchToTest(w http.ResponseWriter, r *http.Request) {
	h.handleSwitch(w, r, model.TestMode)
}

func (h *ModeHandler) SwitchToLive(w http.ResponseWriter, r *http.Request) {
	h.handleSwitch(w, r, model.LiveMode)
}

func (h *ModeHandler) handleSwitch(w http.ResponseWriter, r *http.Request, mode model.DataMode) {
	if err := h.switchMode(r.Context(), mode); err != nil {
		h.logger.Error("failed to switch mode", "mode", mode, "error", err)
		http.Error(w, "failed to switch mode", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"status": "ok",
		"mode":   string(h.modeService.GetCurrentMode()),
	})
}
