package service

import "marketdash/internal/domain/model"

// Partition buckets one classified opportunity batch by kind. No merging or
// deduplication: every input record lands in exactly one bucket, so bucket
// sizes always sum to the batch length.
func Partition(opps []model.Opportunity) model.OpportunitySet {
	var set model.OpportunitySet
	for _, opp := range opps {
		switch opp.Kind {
		case model.OpportunityDirect:
			set.Direct = append(set.Direct, *opp.Direct)
		case model.OpportunityCoinCap:
			set.CoinCap = append(set.CoinCap, *opp.CoinCap)
		case model.OpportunityCrossRate:
			set.CrossRate = append(set.CrossRate, *opp.CrossRate)
		default:
			set.Unknown = append(set.Unknown, opp.Raw)
		}
	}
	return set
}
