package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/domain/model"
)

func TestPartition(t *testing.T) {
	direct := model.Opportunity{
		Kind:   model.OpportunityDirect,
		Direct: &model.DirectOpportunity{Pair: "BTCUSD", BuyExchange: "a", SellExchange: "b", ProfitPercentage: 1.2},
	}
	coincap := model.Opportunity{
		Kind:    model.OpportunityCoinCap,
		CoinCap: &model.CoinCapOpportunity{Symbol: "ETH", ConfidenceScore: 0.9},
	}
	crossrate := model.Opportunity{
		Kind:      model.OpportunityCrossRate,
		CrossRate: &model.CrossRateOpportunity{Pair: "BTCEUR", Via: "USD"},
	}
	unknown := model.Opportunity{
		Kind: model.OpportunityUnknown,
		Raw:  json.RawMessage(`{"something":"else"}`),
	}

	t.Run("EveryRecordLandsInExactlyOneBucket", func(t *testing.T) {
		batch := []model.Opportunity{direct, coincap, crossrate, unknown, direct}

		set := Partition(batch)
		assert.Len(t, set.Direct, 2)
		assert.Len(t, set.CoinCap, 1)
		assert.Len(t, set.CrossRate, 1)
		assert.Len(t, set.Unknown, 1)
		assert.Equal(t, len(batch), set.Total())
	})

	t.Run("PreservesOrderWithinBucket", func(t *testing.T) {
		first := direct
		second := model.Opportunity{
			Kind:   model.OpportunityDirect,
			Direct: &model.DirectOpportunity{Pair: "ETHUSD", BuyExchange: "c", SellExchange: "d"},
		}

		set := Partition([]model.Opportunity{first, coincap, second})
		require.Len(t, set.Direct, 2)
		assert.Equal(t, "BTCUSD", set.Direct[0].Pair)
		assert.Equal(t, "ETHUSD", set.Direct[1].Pair)
	})

	t.Run("UnknownKeepsRawPayload", func(t *testing.T) {
		set := Partition([]model.Opportunity{unknown})
		require.Len(t, set.Unknown, 1)
		assert.JSONEq(t, `{"something":"else"}`, string(set.Unknown[0]))
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		set := Partition(nil)
		assert.Zero(t, set.Total())
	})
}
