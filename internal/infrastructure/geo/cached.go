package geo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fleetlink/fleetlink/internal/pkg/redis"
)

const geocodeCachePrefix = "geocode:"

// CachedClient caches geocode lookups in Redis. Pincode coordinates never
// change, so results are kept for a long TTL. Route computations are not
// cached; they depend on four coordinates and are rarely repeated.
type CachedClient struct {
	client Client
	cache  *redis.Client
	ttl    time.Duration
}

// NewCachedClient wraps a geo client with a Redis geocode cache.
func NewCachedClient(client Client, cache *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  cache,
		ttl:    ttl,
	}
}

// Geocode checks the cache before calling the upstream service. Cache
// failures degrade to an upstream call.
func (c *CachedClient) Geocode(ctx context.Context, pincode string) (*Location, error) {
	cacheKey := geocodeCachePrefix + pincode

	if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
		var loc Location
		if err := json.Unmarshal([]byte(cached), &loc); err == nil {
			return &loc, nil
		}
		// Corrupt entry, drop it and fall through to the upstream call.
		_ = c.cache.Del(ctx, cacheKey)
	}

	// A miss and a cache outage both end up here; the upstream serves either way.
	loc, err := c.client.Geocode(ctx, pincode)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(loc); err == nil {
		_ = c.cache.Set(ctx, cacheKey, data, c.ttl)
	}

	return loc, nil
}

// Route passes through to the upstream client.
func (c *CachedClient) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	return c.client.Route(ctx, fromLat, fromLon, toLat, toLon)
}
