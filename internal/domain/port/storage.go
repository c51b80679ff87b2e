package port

import (
	"context"

	"marketdash/internal/domain/model"
)

type StoragePort interface {
	SaveOpportunities(ctx context.Context, opps []model.Opportunity) error
	GetRecentOpportunities(ctx context.Context, kind model.OpportunityKind, limit int) ([]model.Opportunity, error)
	Ping(ctx context.Context) error
	Close() error
}
