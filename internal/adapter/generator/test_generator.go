package generator

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
)

// TestGenerator выдаёт синтетические фреймы для тестового режима: несколько
// бирж со стандартными котировками вокруг базовой цены плюс изредка
// прямые арбитражные сигналы.
type TestGenerator struct {
	name      string
	exchanges []string
	pairs     []string
	log       *slog.Logger
	cancel    context.CancelFunc
}

func NewTestGenerator(name string, pairs []string, log *slog.Logger) port.StreamPort {
	return &TestGenerator{
		name:      name,
		exchanges: []string{"alpha-ex", "beta-ex", "gamma-ex"},
		pairs:     pairs,
		log:       log,
	}
}

func (t *TestGenerator) Name() string { return t.name }

func (t *TestGenerator) Connect(ctx context.Context) error {
	// nothing to do
	return nil
}

func (t *TestGenerator) ReadFrames(ctx context.Context) (<-chan model.StreamFrame, <-chan error) {
	out := make(chan model.StreamFrame)
	errCh := make(chan error)
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	go func() {
		defer close(out)
		defer close(errCh)
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				frame := t.makeFrame(r)
				select {
				case out <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, errCh
}

func (t *TestGenerator) makeFrame(r *rand.Rand) model.StreamFrame {
	snapshot := model.Snapshot{}
	var opps []model.Opportunity
	now := time.Now()

	for _, pair := range t.pairs {
		baseCur, quoteCur := splitPair(pair)
		anchor := r.Float64()*1000 + 10
		var lowAsk, highBid float64
		var lowAskEx, highBidEx string

		for _, exchange := range t.exchanges {
			mid := anchor * (1 + (r.Float64()-0.5)*0.01)
			half := mid * 0.0005
			q := &model.Quote{
				Exchange: exchange,
				Base:     baseCur,
				Quote:    quoteCur,
				Bid:      mid - half,
				Ask:      mid + half,
				Last:     mid,
				Volume:   r.Float64() * 50,
			}
			if snapshot[exchange] == nil {
				snapshot[exchange] = map[string]model.SnapshotEntry{}
			}
			snapshot[exchange][pair] = model.SnapshotEntry{Kind: model.EntryStandard, Quote: q}

			if lowAskEx == "" || q.Ask < lowAsk {
				lowAsk, lowAskEx = q.Ask, exchange
			}
			if highBidEx == "" || q.Bid > highBid {
				highBid, highBidEx = q.Bid, exchange
			}
		}

		if highBid > lowAsk && lowAskEx != highBidEx {
			profit := highBid - lowAsk
			opps = append(opps, model.Opportunity{
				Kind: model.OpportunityDirect,
				Direct: &model.DirectOpportunity{
					Pair:             pair,
					BuyExchange:      lowAskEx,
					SellExchange:     highBidEx,
					BuyPrice:         lowAsk,
					SellPrice:        highBid,
					Profit:           profit,
					ProfitPercentage: profit / lowAsk * 100,
					Timestamp:        now.Format(time.RFC3339),
				},
			})
		}
	}

	return model.StreamFrame{
		Status:        "ok",
		Snapshot:      snapshot,
		Opportunities: opps,
		Timestamp:     now.Unix(),
	}
}

// splitPair разбивает символ пары на базовую и котируемую валюты;
// котируемая — последние три символа (BTCUSD -> BTC/USD).
func splitPair(pair string) (string, string) {
	if len(pair) > 3 {
		return pair[:len(pair)-3], pair[len(pair)-3:]
	}
	return pair, ""
}

func (t *TestGenerator) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}
