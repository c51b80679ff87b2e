package port

import (
	"context"

	"marketdash/internal/domain/model"
)

type CachePort interface {
	SetMarketViews(ctx context.Context, views []model.MarketData) error
	GetMarketViews(ctx context.Context) ([]model.MarketData, error)
	SetCoinCapEntries(ctx context.Context, entries []model.CoinCapEntry) error
	GetCoinCapEntries(ctx context.Context) ([]model.CoinCapEntry, error)
	SetSummary(ctx context.Context, summary model.MarketSummary) error
	GetSummary(ctx context.Context) (*model.MarketSummary, error)
	SetOpportunities(ctx context.Context, set model.OpportunitySet) error
	GetOpportunities(ctx context.Context) (*model.OpportunitySet, error)
	Ping(ctx context.Context) error
	Close() error
}
