package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Searcher runs cascading catalog searches.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Track, error)
}

// CachedSearcher memoizes search results in Redis. The catalog never changes
// while the process runs, so entries only expire by TTL. Redis failures fall
// back to the underlying searcher.
type CachedSearcher struct {
	next   Searcher
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewCachedSearcher(next Searcher, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSearcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSearcher{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: "catalog:search:",
		logger: logger.With("component", "search-cache"),
	}
}

// Key returns the Redis key for q. Fields are normalized and query-escaped.
func (c *CachedSearcher) Key(q Query) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	v := url.Values{}
	v.Set("title", norm(q.Title))
	v.Set("genre", norm(q.Genre))
	v.Set("artist", norm(q.Artist))
	return c.prefix + v.Encode()
}

func (c *CachedSearcher) Search(ctx context.Context, q Query) ([]Track, error) {
	if q.Empty() || c.rdb == nil {
		return c.next.Search(ctx, q)
	}

	key := c.Key(q)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tracks []Track
		if err := json.Unmarshal(raw, &tracks); err == nil {
			return tracks, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "key", key, "err", err)
	}

	tracks, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		return tracks, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "err", err)
	}
	return tracks, nil
}
