package usecase

import (
	"context"

	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
)

// MarketUseCase is the read side for the HTTP API: latest state from the
// cache, history from storage.
type MarketUseCase struct {
	cache   port.CachePort
	storage port.StoragePort
}

func NewMarketUseCase(cache port.CachePort, storage port.StoragePort) *MarketUseCase {
	return &MarketUseCase{
		cache:   cache,
		storage: storage,
	}
}

func (uc *MarketUseCase) GetMarketViews(ctx context.Context) ([]model.MarketData, error) {
	return uc.cache.GetMarketViews(ctx)
}

func (uc *MarketUseCase) GetMarketView(ctx context.Context, pair string) (*model.MarketData, error) {
	views, err := uc.cache.GetMarketViews(ctx)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].Pair == pair {
			return &views[i], nil
		}
	}
	return nil, nil
}

func (uc *MarketUseCase) GetCoinCapEntries(ctx context.Context) ([]model.CoinCapEntry, error) {
	return uc.cache.GetCoinCapEntries(ctx)
}

func (uc *MarketUseCase) GetSummary(ctx context.Context) (*model.MarketSummary, error) {
	return uc.cache.GetSummary(ctx)
}

func (uc *MarketUseCase) GetOpportunities(ctx context.Context) (*model.OpportunitySet, error) {
	return uc.cache.GetOpportunities(ctx)
}

func (uc *MarketUseCase) GetOpportunityHistory(ctx context.Context, kind model.OpportunityKind, limit int) ([]model.Opportunity, error) {
	return uc.storage.GetRecentOpportunities(ctx, kind, limit)
}
