package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// queryTTL bounds how long a resolved query stays cached. porindex calls
// InvalidateQueries after a rebuild; the TTL also bounds stale answers when
// that call fails or is not made.
const queryTTL = 10 * time.Minute

func queryKey(normalized string) string { return "por:query:" + normalized }

// SetQueryResult caches the serialized resolution of a normalized query.
func (c *Client) SetQueryResult(ctx context.Context, normalized string, result json.RawMessage) error {
	return c.rdb.Set(ctx, queryKey(normalized), []byte(result), queryTTL).Err()
}

// GetQueryResult retrieves a cached resolution, or nil on a miss.
func (c *Client) GetQueryResult(ctx context.Context, normalized string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, queryKey(normalized)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached query: %w", err)
	}
	return json.RawMessage(data), nil
}

// InvalidateQueries drops every cached query result, for use after an index
// rebuild.
func (c *Client) InvalidateQueries(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, queryKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate cached query: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached queries: %w", err)
	}
	return nil
}
