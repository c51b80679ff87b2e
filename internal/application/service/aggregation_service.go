package service

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
)

// AggregationService превращает каждый фрейм стрима в агрегированное
// представление рынка и кладёт результат в кеш. Фреймы обрабатываются
// строго по одному; сервис не хранит состояние между фреймами.
type AggregationService struct {
	cache     port.CachePort
	log       *slog.Logger
	persistCh chan<- []model.Opportunity
}

func NewAggregationService(cache port.CachePort, log *slog.Logger, persistCh chan<- []model.Opportunity) *AggregationService {
	return &AggregationService{
		cache:     cache,
		log:       log,
		persistCh: persistCh,
	}
}

// ProcessFrame recomputes every derived view from one complete frame and
// replaces the cached state with it, so readers always see exactly one
// snapshot, never a mix of two.
func (s *AggregationService) ProcessFrame(ctx context.Context, frame model.StreamFrame) {
	views, coincap := Aggregate(frame.Snapshot)
	set := Partition(frame.Opportunities)
	summary := Summarize(views, frame.Opportunities)

	if err := s.cache.SetMarketViews(ctx, views); err != nil {
		s.log.Error("failed to cache market views", "error", err)
	}
	if err := s.cache.SetCoinCapEntries(ctx, coincap); err != nil {
		s.log.Error("failed to cache coincap entries", "error", err)
	}
	if err := s.cache.SetSummary(ctx, summary); err != nil {
		s.log.Error("failed to cache summary", "error", err)
	}
	if err := s.cache.SetOpportunities(ctx, set); err != nil {
		s.log.Error("failed to cache opportunities", "error", err)
	}

	if s.persistCh != nil && len(frame.Opportunities) > 0 {
		select {
		case s.persistCh <- frame.Opportunities:
		case <-ctx.Done():
			return
		default:
			s.log.Warn("persist queue full, dropping opportunity batch", "count", len(frame.Opportunities))
		}
	}

	s.log.Debug("frame processed",
		"pairs", len(views),
		"coincap_entries", len(coincap),
		"opportunities", len(frame.Opportunities),
		"ts", frame.Timestamp)
}

// Run drains the frame channel until it closes or the context is cancelled.
// The caller starts exactly one Run goroutine: every source forwards into the
// same channel, so cache writes for one frame always complete before the next
// frame is touched.
func (s *AggregationService) Run(ctx context.Context, frames <-chan model.StreamFrame) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			s.ProcessFrame(ctx, frame)
		}
	}
}

// Aggregate folds one snapshot into per-pair cross-exchange views plus the
// flat list of alternate-format entries. Pure function of its input: calling
// it twice on the same snapshot yields identical output.
//
// Exchanges and pairs are walked in sorted key order, so the first-seen
// tie-break for best bid/ask is stable: on equal prices the
// lexicographically first exchange wins.
func Aggregate(snapshot model.Snapshot) ([]model.MarketData, []model.CoinCapEntry) {
	pairViews := make(map[string]*model.MarketData)
	var coincap []model.CoinCapEntry

	exchanges := sortedKeys(snapshot)
	for _, exchange := range exchanges {
		entries := snapshot[exchange]
		for _, pair := range sortedKeys(entries) {
			entry := entries[pair]
			switch entry.Kind {
			case model.EntryCoinCap:
				cc := entry.CoinCap
				coincap = append(coincap, model.CoinCapEntry{
					Exchange:  exchange,
					Pair:      pair,
					Symbol:    cc.Symbol,
					Name:      cc.Name,
					Price:     cc.PriceUSD,
					Volume:    cc.Volume24hUSD,
					Change24h: cc.Change24h,
					MarketCap: cc.MarketCapUSD,
					Rank:      cc.Rank,
					Timestamp: cc.Timestamp,
				})

			case model.EntryStandard:
				q := entry.Quote
				if q == nil || q.Empty() {
					continue // exchange reported no market for this pair
				}
				foldQuote(pairViews, pair, exchange, q)
			}
		}
	}

	views := make([]model.MarketData, 0, len(pairViews))
	for _, view := range pairViews {
		// A pair with quotes on only one side of the book is dropped
		// entirely: no partial or NaN views are emitted.
		if view.BestBid > 0 && !math.IsInf(view.BestAsk, 1) {
			view.MidPrice = (view.BestBid + view.BestAsk) / 2
			views = append(views, *view)
		}
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Pair < views[j].Pair })
	sort.Slice(coincap, func(i, j int) bool { return coincap[i].Pair < coincap[j].Pair })

	return views, coincap
}

func foldQuote(pairViews map[string]*model.MarketData, pair, exchange string, q *model.Quote) {
	view, ok := pairViews[pair]
	if !ok {
		view = &model.MarketData{
			Pair:    pair,
			BestAsk: math.Inf(1),
		}
		pairViews[pair] = view
	}

	spread := q.Ask - q.Bid
	legMid := (q.Ask + q.Bid) / 2
	spreadPercent := 0.0
	if legMid > 0 {
		spreadPercent = spread / legMid * 100
	}

	view.Exchanges = append(view.Exchanges, model.ExchangeLeg{
		Exchange:      exchange,
		Base:          q.Base,
		Quote:         q.Quote,
		Bid:           q.Bid,
		Ask:           q.Ask,
		Last:          q.Last,
		Volume:        q.Volume,
		Spread:        spread,
		SpreadPercent: spreadPercent,
	})

	// Strictly-greater / strictly-less comparisons keep the first-seen
	// exchange on ties.
	if q.Bid > view.BestBid {
		view.BestBid = q.Bid
		view.BestBidExchange = exchange
	}
	if q.Ask < view.BestAsk {
		view.BestAsk = q.Ask
		view.BestAskExchange = exchange
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
