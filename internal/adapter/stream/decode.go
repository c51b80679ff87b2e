package stream

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"

	"marketdash/internal/domain/model"
)

// DecodeFrame parses one raw stream message into a StreamFrame. Field
// presence is probed here and only here; everything past this point works
// with tagged values. Missing or malformed numeric fields come out as 0
// (fastjson semantics), never as an error: a bad record degrades, it does
// not halt the frame.
func DecodeFrame(msg []byte) (model.StreamFrame, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(msg)
	if err != nil {
		return model.StreamFrame{}, fmt.Errorf("failed to parse frame: %w", err)
	}

	frame := model.StreamFrame{
		Status:   string(v.GetStringBytes("status")),
		Snapshot: model.Snapshot{},
	}

	data := v.Get("data")
	if data == nil {
		return frame, nil
	}

	frame.AnalyzerStatus = string(data.GetStringBytes("analyzer_status"))
	frame.Timestamp = data.GetInt64("ts")

	if prices := data.GetObject("all_exchange_prices"); prices != nil {
		prices.Visit(func(exchange []byte, pairs *fastjson.Value) {
			pairsObj, err := pairs.Object()
			if err != nil {
				return
			}
			entries := make(map[string]model.SnapshotEntry, pairsObj.Len())
			pairsObj.Visit(func(pair []byte, quote *fastjson.Value) {
				entries[string(pair)] = decodeQuote(string(exchange), string(pair), quote)
			})
			frame.Snapshot[string(exchange)] = entries
		})
	}

	for _, raw := range data.GetArray("opportunities") {
		frame.Opportunities = append(frame.Opportunities, decodeOpportunity(raw))
	}

	return frame, nil
}

// decodeQuote classifies one per-pair record. The alternate (CoinCap) shape
// is recognized by its USD-suffixed price and volume fields; "volume" alone
// exists in both shapes under different names and must not be used. Anything
// without the CoinCap markers goes down the standard path, where all-zero
// quotes are filtered by the aggregator.
func decodeQuote(exchange, pair string, v *fastjson.Value) model.SnapshotEntry {
	if v.Exists("price_usd") && v.Exists("volume_24h_usd") {
		cc := &model.CoinCapQuote{
			Symbol:           str(v, "symbol"),
			Name:             str(v, "name"),
			PriceUSD:         v.GetFloat64("price_usd"),
			GlobalPriceUSD:   v.GetFloat64("global_price_usd"),
			Volume24hUSD:     v.GetFloat64("volume_24h_usd"),
			Change24h:        v.GetFloat64("change_24h"),
			MarketCapUSD:     v.GetFloat64("market_cap_usd"),
			Rank:             v.GetInt("rank"),
			Exchange:         exchange,
			Timestamp:        str(v, "timestamp"),
			HasRealMarketCap: v.GetBool("has_real_market_cap"),
		}
		if cc.Symbol == "" {
			cc.Symbol = pair
		}
		return model.SnapshotEntry{Kind: model.EntryCoinCap, CoinCap: cc}
	}

	q := &model.Quote{
		Exchange: exchange,
		Base:     str(v, "base"),
		Quote:    str(v, "quote"),
		Bid:      v.GetFloat64("bid"),
		Ask:      v.GetFloat64("ask"),
		Last:     v.GetFloat64("last"),
		Volume:   v.GetFloat64("volume"),
	}
	return model.SnapshotEntry{Kind: model.EntryStandard, Quote: q}
}

// decodeOpportunity classifies one arbitrage record. Precedence is explicit
// and ordered most-specific first: a record carrying cross-rate legs is a
// cross-rate even if it also has a plain "pair" field. Records matching no
// shape land in the Unknown bucket instead of being mis-filed.
func decodeOpportunity(v *fastjson.Value) model.Opportunity {
	raw := json.RawMessage(v.MarshalTo(nil))

	switch {
	case v.Exists("via") && v.Exists("leg1") && v.Exists("leg2") && v.Exists("direct"):
		return model.Opportunity{
			Kind: model.OpportunityCrossRate,
			Raw:  raw,
			CrossRate: &model.CrossRateOpportunity{
				Pair:             str(v, "pair"),
				Via:              str(v, "via"),
				Leg1:             decodeLeg(v.Get("leg1")),
				Leg2:             decodeLeg(v.Get("leg2")),
				Direct:           decodePoint(v.Get("direct")),
				ImpliedRate:      v.GetFloat64("implied_rate"),
				DirectRate:       v.GetFloat64("direct_rate"),
				RateDifference:   v.GetFloat64("rate_difference"),
				ProfitPercentage: v.GetFloat64("profit_percentage"),
				Timestamp:        str(v, "timestamp"),
			},
		}

	case v.Exists("pair") && v.Exists("buy_exchange") && v.Exists("sell_exchange"):
		return model.Opportunity{
			Kind: model.OpportunityDirect,
			Raw:  raw,
			Direct: &model.DirectOpportunity{
				Pair:             str(v, "pair"),
				BuyExchange:      str(v, "buy_exchange"),
				SellExchange:     str(v, "sell_exchange"),
				BuyPrice:         v.GetFloat64("buy_price"),
				SellPrice:        v.GetFloat64("sell_price"),
				Profit:           v.GetFloat64("profit"),
				ProfitPercentage: v.GetFloat64("profit_percentage"),
				Timestamp:        str(v, "timestamp"),
				DBCreatedAt:      str(v, "db_created_at"),
			},
		}

	case v.Exists("symbol") && v.Exists("lowest") && v.Exists("highest"):
		return model.Opportunity{
			Kind: model.OpportunityCoinCap,
			Raw:  raw,
			CoinCap: &model.CoinCapOpportunity{
				Symbol:               str(v, "symbol"),
				Currency:             str(v, "currency"),
				Lowest:               decodePoint(v.Get("lowest")),
				Highest:              decodePoint(v.Get("highest")),
				PriceDifference:      v.GetFloat64("price_difference"),
				PercentageDifference: v.GetFloat64("percentage_difference"),
				ViaCurrency:          str(v, "via_currency"),
				ConfidenceScore:      v.GetFloat64("confidence_score"),
				Timestamp:            str(v, "timestamp"),
			},
		}
	}

	return model.Opportunity{Kind: model.OpportunityUnknown, Raw: raw}
}

func decodeLeg(v *fastjson.Value) model.CrossRateLeg {
	if v == nil {
		return model.CrossRateLeg{}
	}
	return model.CrossRateLeg{
		Pair:     str(v, "pair"),
		Exchange: str(v, "exchange"),
		Price:    v.GetFloat64("price"),
	}
}

func decodePoint(v *fastjson.Value) model.PricePoint {
	if v == nil {
		return model.PricePoint{}
	}
	return model.PricePoint{
		Price:    v.GetFloat64("price"),
		Exchange: str(v, "exchange"),
	}
}

func str(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}
