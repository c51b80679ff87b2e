package generator

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/domain/model"
)

func TestSplitPair(t *testing.T) {
	cases := []struct {
		pair, base, quote string
	}{
		{"BTCUSD", "BTC", "USD"},
		{"DOGEUSD", "DOGE", "USD"},
		{"ETHEUR", "ETH", "EUR"},
		{"XRP", "XRP", ""},
	}
	for _, c := range cases {
		base, quote := splitPair(c.pair)
		assert.Equal(t, c.base, base, c.pair)
		assert.Equal(t, c.quote, quote, c.pair)
	}
}

func TestMakeFrame(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := NewTestGenerator("gen", []string{"BTCUSD", "ETHUSD"}, log).(*TestGenerator)

	frame := gen.makeFrame(rand.New(rand.NewSource(1)))

	require.NotEmpty(t, frame.Snapshot)
	for exchange, pairs := range frame.Snapshot {
		require.Len(t, pairs, 2)
		for pair, entry := range pairs {
			require.Equal(t, model.EntryStandard, entry.Kind)
			q := entry.Quote
			assert.Equal(t, exchange, q.Exchange)
			assert.Equal(t, pair, q.Base+q.Quote)
			assert.Equal(t, "USD", q.Quote)
			assert.Greater(t, q.Bid, 0.0)
			assert.Greater(t, q.Ask, q.Bid)
		}
	}

	for _, opp := range frame.Opportunities {
		require.Equal(t, model.OpportunityDirect, opp.Kind)
		assert.Greater(t, opp.Direct.SellPrice, opp.Direct.BuyPrice)
		assert.NotEqual(t, opp.Direct.BuyExchange, opp.Direct.SellExchange)
	}
}
