package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/domain/model"
)

func TestDecodeFrame(t *testing.T) {
	t.Run("FullFrame", func(t *testing.T) {
		msg := []byte(`{
			"status": "success",
			"data": {
				"analyzer_status": "running",
				"ts": 1700000000123,
				"all_exchange_prices": {
					"binanceX": {
						"BTCUSD": {"exchange":"binanceX","base":"BTC","quote":"USD","bid":100,"ask":101,"last":100.5,"volume":10}
					},
					"coincap": {
						"bitcoin": {"symbol":"BTC","name":"Bitcoin","price_usd":65000,"volume_24h_usd":1000000,"change_24h":1.5,"market_cap_usd":1.2e12,"rank":1,"has_real_market_cap":true}
					}
				},
				"opportunities": [
					{"pair":"BTCUSD","buy_exchange":"binanceX","sell_exchange":"krakenX","buy_price":100,"sell_price":102,"profit":2,"profit_percentage":2.0}
				]
			}
		}`)

		frame, err := DecodeFrame(msg)
		require.NoError(t, err)

		assert.Equal(t, "success", frame.Status)
		assert.Equal(t, "running", frame.AnalyzerStatus)
		assert.Equal(t, int64(1700000000123), frame.Timestamp)

		require.Contains(t, frame.Snapshot, "binanceX")
		entry := frame.Snapshot["binanceX"]["BTCUSD"]
		require.Equal(t, model.EntryStandard, entry.Kind)
		assert.Equal(t, 100.0, entry.Quote.Bid)
		assert.Equal(t, 101.0, entry.Quote.Ask)

		require.Contains(t, frame.Snapshot, "coincap")
		cc := frame.Snapshot["coincap"]["bitcoin"]
		require.Equal(t, model.EntryCoinCap, cc.Kind)
		assert.Equal(t, "BTC", cc.CoinCap.Symbol)
		assert.Equal(t, 65000.0, cc.CoinCap.PriceUSD)
		assert.True(t, cc.CoinCap.HasRealMarketCap)

		require.Len(t, frame.Opportunities, 1)
		assert.Equal(t, model.OpportunityDirect, frame.Opportunities[0].Kind)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := DecodeFrame([]byte(`{"status":`))
		assert.Error(t, err)
	})

	t.Run("MissingData", func(t *testing.T) {
		frame, err := DecodeFrame([]byte(`{"status":"success"}`))
		require.NoError(t, err)
		assert.Empty(t, frame.Snapshot)
		assert.Empty(t, frame.Opportunities)
	})
}

func TestDecodeQuoteShape(t *testing.T) {
	parse := func(t *testing.T, raw string) model.SnapshotEntry {
		t.Helper()
		frame, err := DecodeFrame([]byte(`{"status":"success","data":{"all_exchange_prices":{"ex":{"PAIR":` + raw + `}}}}`))
		require.NoError(t, err)
		return frame.Snapshot["ex"]["PAIR"]
	}

	t.Run("USDFieldsSelectAlternateShape", func(t *testing.T) {
		entry := parse(t, `{"symbol":"SOL","price_usd":150,"volume_24h_usd":500}`)
		require.Equal(t, model.EntryCoinCap, entry.Kind)
		assert.Equal(t, "SOL", entry.CoinCap.Symbol)
		assert.Equal(t, 150.0, entry.CoinCap.PriceUSD)
	})

	t.Run("PriceUSDAloneIsNotEnough", func(t *testing.T) {
		entry := parse(t, `{"price_usd":150,"bid":149,"ask":151}`)
		require.Equal(t, model.EntryStandard, entry.Kind)
		assert.Equal(t, 149.0, entry.Quote.Bid)
	})

	t.Run("PlainVolumeFieldDoesNotTrigger", func(t *testing.T) {
		// Both shapes carry a volume-ish field; only the USD-suffixed pair
		// of fields identifies the alternate shape.
		entry := parse(t, `{"bid":1,"ask":2,"last":1.5,"volume":99}`)
		assert.Equal(t, model.EntryStandard, entry.Kind)
	})

	t.Run("SymbolFallsBackToPairKey", func(t *testing.T) {
		entry := parse(t, `{"price_usd":10,"volume_24h_usd":20}`)
		require.Equal(t, model.EntryCoinCap, entry.Kind)
		assert.Equal(t, "PAIR", entry.CoinCap.Symbol)
	})

	t.Run("MalformedNumericsDecayToZero", func(t *testing.T) {
		entry := parse(t, `{"bid":"oops","ask":101}`)
		require.Equal(t, model.EntryStandard, entry.Kind)
		assert.Equal(t, 0.0, entry.Quote.Bid)
		assert.Equal(t, 101.0, entry.Quote.Ask)
	})
}

func TestDecodeOpportunityClassification(t *testing.T) {
	parse := func(t *testing.T, raw string) model.Opportunity {
		t.Helper()
		frame, err := DecodeFrame([]byte(`{"status":"success","data":{"opportunities":[` + raw + `]}}`))
		require.NoError(t, err)
		require.Len(t, frame.Opportunities, 1)
		return frame.Opportunities[0]
	}

	t.Run("Direct", func(t *testing.T) {
		opp := parse(t, `{"pair":"ETHUSD","buy_exchange":"a","sell_exchange":"b","buy_price":10,"sell_price":11,"profit_percentage":10}`)
		require.Equal(t, model.OpportunityDirect, opp.Kind)
		assert.Equal(t, "ETHUSD", opp.Direct.Pair)
		assert.Equal(t, 10.0, opp.Direct.ProfitPercentage)
	})

	t.Run("CoinCap", func(t *testing.T) {
		opp := parse(t, `{"symbol":"BTC","currency":"USD","lowest":{"price":100,"exchange":"a"},"highest":{"price":105,"exchange":"b"},"percentage_difference":5,"confidence_score":0.8}`)
		require.Equal(t, model.OpportunityCoinCap, opp.Kind)
		assert.Equal(t, "BTC", opp.CoinCap.Symbol)
		assert.Equal(t, 100.0, opp.CoinCap.Lowest.Price)
		assert.Equal(t, "b", opp.CoinCap.Highest.Exchange)
	})

	t.Run("CrossRate", func(t *testing.T) {
		opp := parse(t, `{"pair":"BTCEUR","via":"USD","leg1":{"pair":"BTCUSD","exchange":"a","price":100},"leg2":{"pair":"EURUSD","exchange":"b","price":1.1},"direct":{"price":91,"exchange":"c"},"implied_rate":90.9,"direct_rate":91,"profit_percentage":0.1}`)
		require.Equal(t, model.OpportunityCrossRate, opp.Kind)
		assert.Equal(t, "USD", opp.CrossRate.Via)
		assert.Equal(t, "BTCUSD", opp.CrossRate.Leg1.Pair)
		assert.Equal(t, 1.1, opp.CrossRate.Leg2.Price)
	})

	t.Run("CrossRateWinsOverDirectFields", func(t *testing.T) {
		// Carries pair/buy_exchange/sell_exchange too; the cross-rate
		// markers take precedence.
		opp := parse(t, `{"pair":"BTCEUR","buy_exchange":"a","sell_exchange":"b","via":"USD","leg1":{},"leg2":{},"direct":{}}`)
		assert.Equal(t, model.OpportunityCrossRate, opp.Kind)
		assert.Nil(t, opp.Direct)
	})

	t.Run("DirectWinsOverCoinCapFields", func(t *testing.T) {
		opp := parse(t, `{"pair":"BTCUSD","buy_exchange":"a","sell_exchange":"b","symbol":"BTC","lowest":{},"highest":{}}`)
		assert.Equal(t, model.OpportunityDirect, opp.Kind)
	})

	t.Run("UnrecognizedGoesToUnknown", func(t *testing.T) {
		opp := parse(t, `{"kind_of":"new","value":42}`)
		require.Equal(t, model.OpportunityUnknown, opp.Kind)
		assert.Nil(t, opp.Direct)
		assert.Nil(t, opp.CoinCap)
		assert.Nil(t, opp.CrossRate)
		assert.JSONEq(t, `{"kind_of":"new","value":42}`, string(opp.Raw))
	})

	t.Run("RawPreservedForEveryKind", func(t *testing.T) {
		raw := `{"pair":"ETHUSD","buy_exchange":"a","sell_exchange":"b"}`
		opp := parse(t, raw)
		assert.JSONEq(t, raw, string(opp.Raw))
	})

	t.Run("PartialDirectFieldsAreUnknown", func(t *testing.T) {
		opp := parse(t, `{"pair":"BTCUSD","buy_exchange":"a"}`)
		assert.Equal(t, model.OpportunityUnknown, opp.Kind)
	})
}
