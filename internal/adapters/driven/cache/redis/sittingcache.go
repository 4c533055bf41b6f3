package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// KeyPrefix namespaces every key written by the cache.
const KeyPrefix = "hansard:sitting:"

// Ensure SittingDateCache implements the interface.
var _ driven.SittingDateCache = (*SittingDateCache)(nil)

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// SittingDateCache stores sitting dates in Redis.
type SittingDateCache struct {
	client *goredis.Client
	ttl    time.Duration
}

type entry struct {
	Date      string    `json:"date"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewSittingDateCache connects to opts.Addr.
func NewSittingDateCache(opts Options) *SittingDateCache {
	return NewSittingDateCacheFromClient(goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}))
}

// NewSittingDateCacheFromClient wraps an existing client.
func NewSittingDateCacheFromClient(client *goredis.Client) *SittingDateCache {
	return &SittingDateCache{client: client, ttl: domain.SittingDateTTL}
}

// Ping checks that the server is reachable.
func (c *SittingDateCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *SittingDateCache) Close() error {
	return c.client.Close()
}

// Get returns the entry for key, or domain.ErrNotFound once it has expired.
func (c *SittingDateCache) Get(ctx context.Context, key string) (*domain.SittingDateEntry, error) {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding sitting date %s: %w", key, err)
	}
	return &domain.SittingDateEntry{Key: key, Date: e.Date, FetchedAt: e.FetchedAt}, nil
}

// Put stores or replaces an entry with the sitting-date TTL.
func (c *SittingDateCache) Put(ctx context.Context, se domain.SittingDateEntry) error {
	data, err := json.Marshal(entry{Date: se.Date, FetchedAt: se.FetchedAt.UTC()})
	if err != nil {
		return fmt.Errorf("encoding sitting date %s: %w", se.Key, err)
	}
	if err := c.client.Set(ctx, KeyPrefix+se.Key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", se.Key, err)
	}
	return nil
}
