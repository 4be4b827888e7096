package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type memoryItem struct {
	value     string
	expiredAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiredAt.IsZero() && !now.Before(i.expiredAt)
}

// memoryClient is used when no redis address is configured, e.g. in local
// development with a single api process.
type memoryClient struct {
	items *xsync.MapOf[string, memoryItem]
}

func NewMemoryClient() *memoryClient {
	return &memoryClient{items: xsync.NewMapOf[memoryItem]()}
}

func (c *memoryClient) Exist(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}

	return err == nil, err
}

func (c *memoryClient) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.items.Delete(key)
	}

	return nil
}

func (c *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiredAt = time.Now().Add(ttl)
	}

	c.items.Store(key, item)
	return nil
}

func (c *memoryClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(b), ttl)
}

func (c *memoryClient) Get(ctx context.Context, key string) (string, error) {
	item, ok := c.items.Load(key)
	if !ok {
		return "", ErrNotFound
	}

	if item.expired(time.Now()) {
		c.items.Delete(key)
		return "", ErrNotFound
	}

	return item.value, nil
}

func (c *memoryClient) GetObj(ctx context.Context, key string, v any) error {
	value, err := c.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(value), v)
}
