package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const (
	keyAdminList  = "tickets:admin"
	keyUserPrefix = "tickets:user:"
)

// TicketCache caches ticket summary listings in Redis. Listings are
// invalidated wholesale on any ticket write.
type TicketCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTicketCache returns a new TicketCache.
func NewTicketCache(rdb *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{rdb: rdb, ttl: ttl}
}

// GetAdminList returns the cached admin listing or nil on miss.
func (c *TicketCache) GetAdminList(ctx context.Context) ([]repository.TicketWithCreator, error) {
	return c.get(ctx, keyAdminList)
}

// SetAdminList stores the admin listing.
func (c *TicketCache) SetAdminList(ctx context.Context, rows []repository.TicketWithCreator) error {
	return c.set(ctx, keyAdminList, rows)
}

// GetUserList returns the cached per-user listing or nil on miss.
func (c *TicketCache) GetUserList(ctx context.Context, userID string) ([]repository.TicketWithCreator, error) {
	return c.get(ctx, keyUserPrefix+userID)
}

// SetUserList stores the per-user listing.
func (c *TicketCache) SetUserList(ctx context.Context, userID string, rows []repository.TicketWithCreator) error {
	return c.set(ctx, keyUserPrefix+userID, rows)
}

// Invalidate removes the admin listing and every per-user listing.
func (c *TicketCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, keyAdminList).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyUserPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *TicketCache) get(ctx context.Context, key string) ([]repository.TicketWithCreator, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []repository.TicketWithCreator
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *TicketCache) set(ctx context.Context, key string, rows []repository.TicketWithCreator) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
