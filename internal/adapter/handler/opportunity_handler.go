package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"marketdash/internal/application/usecase"
	"marketdash/internal/domain/model"
)

type OpportunityHandler struct {
	useCase *usecase.MarketUseCase
	logger  *slog.Logger
}

func NewOpportunityHandler(useCase *usecase.MarketUseCase, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// GetLatest returns the current snapshot's partitioned buckets, optionally
// narrowed to one kind with ?type=direct|coincap|crossrate|unknown.
func (h *OpportunityHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	set, err := h.useCase.GetOpportunities(r.Context())
	if err != nil {
		h.logger.Error("failed to get opportunities", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if set == nil {
		set = &model.OpportunitySet{}
	}

	switch model.OpportunityKind(r.URL.Query().Get("type")) {
	case model.OpportunityDirect:
		writeJSON(w, set.Direct)
	case model.OpportunityCoinCap:
		writeJSON(w, set.CoinCap)
	case model.OpportunityCrossRate:
		writeJSON(w, set.CrossRate)
	case model.OpportunityUnknown:
		writeJSON(w, set.Unknown)
	case "":
		writeJSON(w, set)
	default:
		http.Error(w, "unknown opportunity type", http.StatusBadRequest)
	}
}

func (h *OpportunityHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	kind := model.OpportunityKind(r.URL.Query().Get("type"))
	switch kind {
	case "", model.OpportunityDirect, model.OpportunityCoinCap, model.OpportunityCrossRate, model.OpportunityUnknown:
	default:
		http.Error(w, "unknown opportunity type", http.StatusBadRequest)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	opps, err := h.useCase.GetOpportunityHistory(r.Context(), kind, limit)
	if err != nil {
		h.logger.Error("failed to get opportunity history", "error", err, "type", kind)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, opps)
}
