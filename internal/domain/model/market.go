package model

// ExchangeLeg is one exchange's contribution to a pair's aggregated view,
// with the per-exchange spread already computed.
type ExchangeLeg struct {
	Exchange      string  `json:"exchange"`
	Base          string  `json:"base"`
	Quote         string  `json:"quote"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
	Last          float64 `json:"last"`
	Volume        float64 `json:"volume"`
	Spread        float64 `json:"spread"`
	SpreadPercent float64 `json:"spread_percent"`
}

// MarketData is the aggregated cross-exchange view for one trading pair.
// Present only when at least one exchange contributed a usable bid and one a
// usable ask.
type MarketData struct {
	Pair            string        `json:"pair"`
	Exchanges       []ExchangeLeg `json:"exchanges"`
	BestBid         float64       `json:"best_bid"`
	BestAsk         float64       `json:"best_ask"`
	BestBidExchange string        `json:"best_bid_exchange"`
	BestAskExchange string        `json:"best_ask_exchange"`
	MidPrice        float64       `json:"mid_price"`
}

// CoinCapEntry is a flattened alternate-format quote. These are listed per
// exchange and never merged into a cross-exchange view: without a currency
// conversion step there is no meaningful "best price" across them.
type CoinCapEntry struct {
	Exchange  string  `json:"exchange"`
	Pair      string  `json:"pair"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Change24h float64 `json:"change_24h"`
	MarketCap float64 `json:"market_cap"`
	Rank      int     `json:"rank"`
	Timestamp string  `json:"timestamp"`
}

// MarketSummary is the derived analytics record over one snapshot.
type MarketSummary struct {
	TotalPairs         int     `json:"total_pairs"`
	TotalExchanges     int     `json:"total_exchanges"`
	TotalOpportunities int     `json:"total_opportunities"`
	AvgSpreadPercent   float64 `json:"avg_spread_percent"`
}
