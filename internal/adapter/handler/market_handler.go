package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"marketdash/internal/application/usecase"
)

type MarketHandler struct {
	useCase *usecase.MarketUseCase
	logger  *slog.Logger
}

func NewMarketHandler(useCase *usecase.MarketUseCase, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		useCase: useCase,
		logger:  logger,
	}
}

func (h *MarketHandler) GetViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.useCase.GetMarketViews(r.Context())
	if err != nil {
		h.logger.Error("failed to get market views", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// An empty result set is valid output, not an error.
	writeJSON(w, views)
}

func (h *MarketHandler) GetView(w http.ResponseWriter, r *http.Request) {
	pair := strings.TrimPrefix(r.URL.Path, "/market/views/")
	if pair == "" || strings.Contains(pair, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	view, err := h.useCase.GetMarketView(r.Context(), pair)
	if err != nil {
		h.logger.Error("failed to get market view", "error", err, "pair", pair)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if view == nil {
		http.Error(w, "no data found", http.StatusNotFound)
		return
	}

	writeJSON(w, view)
}

func (h *MarketHandler) GetCoinCap(w http.ResponseWriter, r *http.Request) {
	entries, err := h.useCase.GetCoinCapEntries(r.Context())
	if err != nil {
		h.logger.Error("failed to get coincap entries", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, entries)
}

func (h *MarketHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.useCase.GetSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to get summary", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if summary == nil {
		http.Error(w, "no data found", http.StatusNotFound)
		return
	}

	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
