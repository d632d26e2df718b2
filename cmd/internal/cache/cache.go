// Package cache holds the Redis-backed read-model cache for dashboard
// aggregates. The store is nil-safe: without a REDIS_URL every call is a
// no-op and reads always miss, so the server runs fine without Redis.
package cache

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/gommon/log"
)

// Invalidator is the port writers call after a successful commit so that
// cached financial summaries are refreshed on the next read.
type Invalidator interface {
	InvalidateFinancials()
}

const financialPrefix = "financial:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a Store from the REDIS_URL environment variable. An empty
// variable yields a disabled store rather than an error.
func New() *Store {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		log.Info("REDIS_URL not set, dashboard caching disabled")
		return &Store{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Store{client: client, ttl: time.Hour}
}

// GetFinancial returns the cached summary JSON for a month key ("2025-08"),
// or false on a miss.
func (s *Store) GetFinancial(month string) ([]byte, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}

	raw, err := s.client.Get(context.Background(), financialPrefix+month).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Errorf("failed to read cached summary for %s: %v", month, err)
		}
		return nil, false
	}
	return raw, true
}

// SetFinancial caches the summary JSON for a month key.
func (s *Store) SetFinancial(month string, payload []byte) {
	if s == nil || s.client == nil {
		return
	}

	err := s.client.Set(context.Background(), financialPrefix+month, payload, s.ttl).Err()
	if err != nil {
		log.Errorf("failed to cache summary for %s: %v", month, err)
	}
}

// InvalidateFinancials drops every cached financial summary.
func (s *Store) InvalidateFinancials() {
	if s == nil || s.client == nil {
		return
	}

	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, financialPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Errorf("failed to drop cache key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Errorf("failed to scan financial cache keys: %v", err)
	}
}

var _ Invalidator = (*Store)(nil)
