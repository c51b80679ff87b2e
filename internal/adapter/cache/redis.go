package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketdash/internal/domain/model"
)

const (
	keyMarketViews   = "market:views"
	keyCoinCap       = "market:coincap"
	keySummary       = "market:summary"
	keyOpportunities = "market:opportunities"
)

// RedisAdapter хранит последний результат агрегации как JSON-значения с TTL.
// Каждый фрейм полностью заменяет предыдущее состояние.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(addr, password string, db int, ttl time.Duration) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAdapter{
		client: client,
		ttl:    ttl,
	}, nil
}

func (a *RedisAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *RedisAdapter) SetMarketViews(ctx context.Context, views []model.MarketData) error {
	return a.setJSON(ctx, keyMarketViews, views)
}

func (a *RedisAdapter) GetMarketViews(ctx context.Context) ([]model.MarketData, error) {
	var views []model.MarketData
	if err := a.getJSON(ctx, keyMarketViews, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (a *RedisAdapter) SetCoinCapEntries(ctx context.Context, entries []model.CoinCapEntry) error {
	return a.setJSON(ctx, keyCoinCap, entries)
}

func (a *RedisAdapter) GetCoinCapEntries(ctx context.Context) ([]model.CoinCapEntry, error) {
	var entries []model.CoinCapEntry
	if err := a.getJSON(ctx, keyCoinCap, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *RedisAdapter) SetSummary(ctx context.Context, summary model.MarketSummary) error {
	return a.setJSON(ctx, keySummary, summary)
}

func (a *RedisAdapter) GetSummary(ctx context.Context) (*model.MarketSummary, error) {
	var summary model.MarketSummary
	found, err := a.getJSONFound(ctx, keySummary, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (a *RedisAdapter) SetOpportunities(ctx context.Context, set model.OpportunitySet) error {
	return a.setJSON(ctx, keyOpportunities, set)
}

func (a *RedisAdapter) GetOpportunities(ctx context.Context) (*model.OpportunitySet, error) {
	var set model.OpportunitySet
	found, err := a.getJSONFound(ctx, keyOpportunities, &set)
	if err != nil || !found {
		return nil, err
	}
	return &set, nil
}

func (a *RedisAdapter) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := a.client.Set(ctx, key, data, a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) getJSON(ctx context.Context, key string, out any) error {
	_, err := a.getJSONFound(ctx, key, out)
	return err
}

func (a *RedisAdapter) getJSONFound(ctx context.Context, key string, out any) (bool, error) {
	data, err := a.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
