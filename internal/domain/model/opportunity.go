package model

import "encoding/json"

// OpportunityKind discriminates the arbitrage record shapes the stream mixes
// into one list.
type OpportunityKind string

const (
	OpportunityDirect    OpportunityKind = "direct"
	OpportunityCoinCap   OpportunityKind = "coincap"
	OpportunityCrossRate OpportunityKind = "crossrate"
	OpportunityUnknown   OpportunityKind = "unknown"
)

// DirectOpportunity is a simple two-exchange buy/sell signal.
type DirectOpportunity struct {
	Pair             string  `json:"pair"`
	BuyExchange      string  `json:"buy_exchange"`
	SellExchange     string  `json:"sell_exchange"`
	BuyPrice         float64 `json:"buy_price"`
	SellPrice        float64 `json:"sell_price"`
	Profit           float64 `json:"profit"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Timestamp        string  `json:"timestamp"`
	DBCreatedAt      string  `json:"db_created_at,omitempty"`
}

// PricePoint is a price observed on a named exchange.
type PricePoint struct {
	Price    float64 `json:"price"`
	Exchange string  `json:"exchange"`
}

// CoinCapOpportunity is the alternate-format two-exchange signal: lowest and
// highest observed prices for a symbol with a confidence score.
type CoinCapOpportunity struct {
	Symbol               string     `json:"symbol"`
	Currency             string     `json:"currency"`
	Lowest               PricePoint `json:"lowest"`
	Highest              PricePoint `json:"highest"`
	PriceDifference      float64    `json:"price_difference"`
	PercentageDifference float64    `json:"percentage_difference"`
	ViaCurrency          string     `json:"via_currency,omitempty"`
	ConfidenceScore      float64    `json:"confidence_score"`
	Timestamp            string     `json:"timestamp"`
}

// CrossRateLeg is one leg of a triangular route.
type CrossRateLeg struct {
	Pair     string  `json:"pair"`
	Exchange string  `json:"exchange"`
	Price    float64 `json:"price"`
}

// CrossRateOpportunity compares a direct rate against the rate implied by two
// legs through an intermediate currency.
type CrossRateOpportunity struct {
	Pair             string       `json:"pair"`
	Via              string       `json:"via"`
	Leg1             CrossRateLeg `json:"leg1"`
	Leg2             CrossRateLeg `json:"leg2"`
	Direct           PricePoint   `json:"direct"`
	ImpliedRate      float64      `json:"implied_rate"`
	DirectRate       float64      `json:"direct_rate"`
	RateDifference   float64      `json:"rate_difference"`
	ProfitPercentage float64      `json:"profit_percentage"`
	Timestamp        string       `json:"timestamp"`
}

// Opportunity is the tagged union the decoder produces. Exactly one variant
// pointer is set, matching Kind; Raw keeps the original record for storage.
type Opportunity struct {
	Kind      OpportunityKind       `json:"kind"`
	Direct    *DirectOpportunity    `json:"direct,omitempty"`
	CoinCap   *CoinCapOpportunity   `json:"coincap,omitempty"`
	CrossRate *CrossRateOpportunity `json:"crossrate,omitempty"`
	Raw       json.RawMessage       `json:"-"`
}

// Label returns the pair or symbol the record is about, for logging and
// storage indexing. Empty for unknown records.
func (o Opportunity) Label() string {
	switch o.Kind {
	case OpportunityDirect:
		return o.Direct.Pair
	case OpportunityCoinCap:
		return o.CoinCap.Symbol
	case OpportunityCrossRate:
		return o.CrossRate.Pair
	}
	return ""
}

// OpportunitySet holds one batch partitioned by kind.
type OpportunitySet struct {
	Direct    []DirectOpportunity    `json:"direct"`
	CoinCap   []CoinCapOpportunity   `json:"coincap"`
	CrossRate []CrossRateOpportunity `json:"crossrate"`
	Unknown   []json.RawMessage      `json:"unknown,omitempty"`
}

// Total is the batch size across all buckets.
func (s OpportunitySet) Total() int {
	return len(s.Direct) + len(s.CoinCap) + len(s.CrossRate) + len(s.Unknown)
}
