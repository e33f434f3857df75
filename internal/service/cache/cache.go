// Package cache implements the two-tier TTL cache in front of the
// street-level imagery pipeline. Tier 1 is process-local memory and is
// always available; tier 2 is a durable store that may be absent.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"gridwalk/internal/config"
	"gridwalk/internal/model"
	"gridwalk/internal/service/storage"
	"gridwalk/internal/util"
)

// SchemaVersion tags every key and entry. Bumping it strands all prior
// durable entries behind unreachable keys.
const SchemaVersion = 1

// redisNamespace prefixes every key in the durable tier
const redisNamespace = "streetview"

// Durable is the optional second cache tier. *redis.Client implements it.
type Durable interface {
	Available() bool
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StreetViewCache caches imagery payloads under quantized location keys
type StreetViewCache struct {
	memory  storage.Storage[string, model.CacheEntry]
	durable Durable
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache in front of the given durable tier. A nil durable
// tier leaves the cache memory-only.
func New(durable Durable) *StreetViewCache {
	return &StreetViewCache{
		memory:  storage.NewMemoryStorage[string, model.CacheEntry](),
		durable: durable,
		ttl:     config.CacheTTL,
		now:     time.Now,
	}
}

// Key quantizes a lookup into its cache key: six decimals for the
// coordinates, one for the normalized bearing, prefixed with the schema
// version so near-identical queries collapse to one entry. A nil bearing
// keys separately from every concrete direction.
func Key(lat, lng float64, bearing *float64) string {
	return fmt.Sprintf("v%d:%.6f,%.6f,%s", SchemaVersion, lat, lng, quantizeBearing(bearing))
}

// quantizeBearing rounds a bearing to one decimal inside [0, 360).
// Rounding can land exactly on 360.0, which is the same direction as
// 0.0, so the result is wrapped again after rounding.
func quantizeBearing(bearing *float64) string {
	if bearing == nil {
		return "none"
	}

	q := math.Round(util.NormalizeBearing(*bearing)*10) / 10
	if q >= 360.0 {
		q = 0
	}
	return strconv.FormatFloat(q, 'f', 1, 64)
}

// Get returns the cached payload for the key, consulting the memory tier
// first and the durable tier on a memory miss. Expired, malformed or
// version-mismatched entries are purged and reported as absent.
func (c *StreetViewCache) Get(ctx context.Context, key string) (model.StreetViewPayload, bool) {
	now := c.now()

	if entry, ok := c.memory.Get(key); ok {
		if entry.SchemaVersion == SchemaVersion && entry.FreshAt(now, c.ttl) {
			return entry.Payload, true
		}

		// Expired in tier 1 means expired everywhere
		c.memory.Delete(key)
		c.deleteDurable(ctx, key)
		return model.StreetViewPayload{}, false
	}

	if !c.durableReady() {
		return model.StreetViewPayload{}, false
	}

	value, ok, err := c.durable.Get(ctx, c.durableKey(key))
	if err != nil {
		log.Printf("Durable cache read failed for %s: %v", key, err)
		return model.StreetViewPayload{}, false
	}
	if !ok {
		return model.StreetViewPayload{}, false
	}

	var entry model.CacheEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		// Malformed entries are silently discarded and read as a miss
		c.deleteDurable(ctx, key)
		return model.StreetViewPayload{}, false
	}
	if entry.SchemaVersion != SchemaVersion || !entry.FreshAt(now, c.ttl) {
		c.deleteDurable(ctx, key)
		return model.StreetViewPayload{}, false
	}

	// Promote the durable entry into the memory tier
	c.memory.Set(key, entry)
	return entry.Payload, true
}

// Put stores a payload under the key in both tiers. Empty payloads are
// cached like any other so a fruitless upstream query is not repeated
// within the TTL window. The durable write is best-effort.
func (c *StreetViewCache) Put(ctx context.Context, key string, payload model.StreetViewPayload) {
	entry := model.CacheEntry{
		Payload:       payload,
		CachedAt:      c.now(),
		SchemaVersion: SchemaVersion,
	}
	c.memory.Set(key, entry)

	if !c.durableReady() {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Failed to encode cache entry for %s: %v", key, err)
		return
	}

	if err := c.durable.Set(ctx, c.durableKey(key), string(data), c.ttl); err != nil {
		log.Printf("Durable cache write failed for %s: %v", key, err)
	}
}

// Sweep removes expired entries from the memory tier and returns how
// many were dropped. The read path already treats expired entries as
// absent; sweeping reclaims the memory they hold.
func (c *StreetViewCache) Sweep() int {
	now := c.now()
	removed := 0

	c.memory.ForEach(func(key string, entry model.CacheEntry) bool {
		if !entry.FreshAt(now, c.ttl) {
			if c.memory.Delete(key) {
				removed++
			}
		}
		return true
	})

	return removed
}

// Count returns the number of entries in the memory tier
func (c *StreetViewCache) Count() int {
	return c.memory.Count()
}

// DurableAvailable reports whether the durable tier passed its startup
// probe
func (c *StreetViewCache) DurableAvailable() bool {
	return c.durableReady()
}

func (c *StreetViewCache) durableReady() bool {
	return c.durable != nil && c.durable.Available()
}

func (c *StreetViewCache) durableKey(key string) string {
	return fmt.Sprintf("%s:%s", redisNamespace, key)
}

func (c *StreetViewCache) deleteDurable(ctx context.Context, key string) {
	if !c.durableReady() {
		return
	}
	if err := c.durable.Delete(ctx, c.durableKey(key)); err != nil {
		log.Printf("Durable cache delete failed for %s: %v", key, err)
	}
}
