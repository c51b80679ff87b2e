package service

import "marketdash/internal/domain/model"

// Summarize computes the dashboard's headline numbers from one snapshot's
// aggregated views and opportunity batch. Read-only fold, recomputed per
// frame.
//
// Legs with spreadPercent <= 0 are not meaningfully priced and are excluded
// from the average; when no leg qualifies the average is 0.
func Summarize(views []model.MarketData, opps []model.Opportunity) model.MarketSummary {
	exchanges := make(map[string]struct{})
	var spreadSum float64
	var spreadCount int

	for _, view := range views {
		for _, leg := range view.Exchanges {
			exchanges[leg.Exchange] = struct{}{}
			if leg.SpreadPercent > 0 {
				spreadSum += leg.SpreadPercent
				spreadCount++
			}
		}
	}

	avgSpread := 0.0
	if spreadCount > 0 {
		avgSpread = spreadSum / float64(spreadCount)
	}

	return model.MarketSummary{
		TotalPairs:         len(views),
		TotalExchanges:     len(exchanges),
		TotalOpportunities: len(opps),
		AvgSpreadPercent:   avgSpread,
	}
}
