package model

// Quote is one exchange's order-book snapshot for one trading pair, in the
// standard bid/ask format most exchanges report.
type Quote struct {
	Exchange string  `json:"exchange"`
	Base     string  `json:"base"`
	Quote    string  `json:"quote"`
	Bid      float64 `json:"bid"`
	Ask      float64 `json:"ask"`
	Last     float64 `json:"last"`
	Volume   float64 `json:"volume"`
}

// Empty reports whether the quote carries no market at all. Exchanges that
// list a pair without an active market send all-zero quotes; a genuinely
// zero-priced asset is indistinguishable from that, which is accepted
// behavior.
func (q Quote) Empty() bool {
	return q.Bid == 0 && q.Ask == 0 && q.Last == 0
}

// CoinCapQuote is the alternate single-USD-price shape a subset of exchanges
// report: global index price, market cap and rank instead of an order book.
type CoinCapQuote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	PriceUSD         float64 `json:"price_usd"`
	GlobalPriceUSD   float64 `json:"global_price_usd"`
	Volume24hUSD     float64 `json:"volume_24h_usd"`
	Change24h        float64 `json:"change_24h"`
	MarketCapUSD     float64 `json:"market_cap_usd"`
	Rank             int     `json:"rank"`
	Exchange         string  `json:"exchange"`
	Timestamp        string  `json:"timestamp"`
	HasRealMarketCap bool    `json:"has_real_market_cap"`
}

// EntryKind discriminates the two quote shapes after decoding.
type EntryKind string

const (
	EntryStandard EntryKind = "standard"
	EntryCoinCap  EntryKind = "coincap"
)

// SnapshotEntry is the tagged union produced by the decoder. Exactly one of
// Quote/CoinCap is set, matching Kind. Downstream code switches on Kind and
// never re-probes field presence.
type SnapshotEntry struct {
	Kind    EntryKind
	Quote   *Quote
	CoinCap *CoinCapQuote
}

// Snapshot is one complete push of all exchanges' current quotes:
// exchange id -> pair or asset symbol -> entry.
type Snapshot map[string]map[string]SnapshotEntry

// StreamFrame is one message from the push stream: a full snapshot plus the
// current opportunity batch.
type StreamFrame struct {
	Status         string
	Snapshot       Snapshot
	Opportunities  []Opportunity
	AnalyzerStatus string
	Timestamp      int64
}
