package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwalk/internal/model"
)

type fakeDurable struct {
	available bool
	data      map[string]string
	getCalls  int
	setCalls  int
	deletes   []string
}

func newFakeDurable() *fakeDurable {
	return &fakeDurable{available: true, data: make(map[string]string)}
}

func (f *fakeDurable) Available() bool { return f.available }

func (f *fakeDurable) Get(ctx context.Context, key string) (string, bool, error) {
	f.getCalls++
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeDurable) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	f.setCalls++
	f.data[key] = value
	return nil
}

func (f *fakeDurable) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.data, key)
	return nil
}

// testCache returns a cache over the fake durable tier with a
// controllable clock
func testCache(durable Durable) (*StreetViewCache, *time.Time) {
	c := New(durable)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return c, &current
}

func bearingPtr(v float64) *float64 { return &v }

func samplePayload() model.StreetViewPayload {
	return model.StreetViewPayload{
		Images: []model.StreetViewFrame{
			{ID: "img-1", ImageURL: "https://example.com/1.jpg"},
			{ID: "img-2", ImageURL: "https://example.com/2.jpg"},
		},
		PreferredIndex: 1,
	}
}

func TestKey(t *testing.T) {
	t.Run("quantizes coordinates and bearing", func(t *testing.T) {
		key := Key(40.7580001, -73.9855001, bearingPtr(90.04))
		assert.Equal(t, "v1:40.758000,-73.985500,90.0", key)
	})

	t.Run("near-identical lookups share a key", func(t *testing.T) {
		a := Key(40.75800004, -73.98550013, bearingPtr(180.01))
		b := Key(40.75800021, -73.98550042, bearingPtr(180.04))
		assert.Equal(t, a, b)
	})

	t.Run("bearing is normalized before quantization", func(t *testing.T) {
		assert.Equal(t, Key(40.0, -73.0, bearingPtr(270)), Key(40.0, -73.0, bearingPtr(-90)))
		assert.Equal(t, Key(40.0, -73.0, bearingPtr(0)), Key(40.0, -73.0, bearingPtr(360)))
	})

	t.Run("rounding up to a full circle wraps back to zero", func(t *testing.T) {
		// 359.97 rounds to 360.0 at one decimal, which is the same
		// direction as 0.0 and must share its key
		assert.Equal(t, Key(40.0, -73.0, bearingPtr(0)), Key(40.0, -73.0, bearingPtr(359.97)))
		assert.NotEqual(t, Key(40.0, -73.0, bearingPtr(0)), Key(40.0, -73.0, bearingPtr(359.9)))
	})

	t.Run("unknown bearing keys stably and separately", func(t *testing.T) {
		assert.Equal(t, "v1:40.758000,-73.985500,none", Key(40.7580, -73.9855, nil))
		assert.NotEqual(t, Key(40.7580, -73.9855, nil), Key(40.7580, -73.9855, bearingPtr(0)))
	})
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c, _ := testCache(newFakeDurable())

	_, found := c.Get(context.Background(), Key(40.7580, -73.9855, bearingPtr(0)))

	assert.False(t, found)
}

func TestPutThenGet(t *testing.T) {
	fake := newFakeDurable()
	c, _ := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(90))

	c.Put(context.Background(), key, samplePayload())

	payload, found := c.Get(context.Background(), key)
	require.True(t, found)
	assert.Equal(t, samplePayload(), payload)

	// The write also reached the durable tier under the namespaced key
	assert.Equal(t, 1, fake.setCalls)
	assert.Contains(t, fake.data, "streetview:"+key)
}

func TestEmptyPayloadIsCached(t *testing.T) {
	c, _ := testCache(newFakeDurable())
	key := Key(40.7000, -74.0000, bearingPtr(0))

	c.Put(context.Background(), key, model.StreetViewPayload{})

	payload, found := c.Get(context.Background(), key)
	require.True(t, found, "an empty result is still a cached result")
	assert.Empty(t, payload.Images)
}

func TestGetExpiresByTTL(t *testing.T) {
	fake := newFakeDurable()
	c, current := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	c.Put(context.Background(), key, samplePayload())

	t.Run("still fresh after six days", func(t *testing.T) {
		*current = current.Add(6 * 24 * time.Hour)
		_, found := c.Get(context.Background(), key)
		assert.True(t, found)
	})

	t.Run("expired after eight days", func(t *testing.T) {
		*current = current.Add(2 * 24 * time.Hour)
		_, found := c.Get(context.Background(), key)
		assert.False(t, found)
	})

	t.Run("expiry purged both tiers", func(t *testing.T) {
		assert.Equal(t, 0, c.Count())
		assert.Contains(t, fake.deletes, "streetview:"+key)
	})
}

func TestGetRejectsVersionMismatch(t *testing.T) {
	fake := newFakeDurable()
	c, current := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	c.memory.Set(key, model.CacheEntry{
		Payload:       samplePayload(),
		CachedAt:      *current,
		SchemaVersion: 99,
	})

	_, found := c.Get(context.Background(), key)

	assert.False(t, found)
	assert.Equal(t, 0, c.Count(), "mismatched entry must be purged")
}

func TestGetPromotesDurableEntry(t *testing.T) {
	fake := newFakeDurable()
	c, current := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(90))

	entry := model.CacheEntry{
		Payload:       samplePayload(),
		CachedAt:      *current,
		SchemaVersion: SchemaVersion,
	}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	fake.data["streetview:"+key] = string(data)

	payload, found := c.Get(context.Background(), key)
	require.True(t, found)
	assert.Equal(t, samplePayload(), payload)
	assert.Equal(t, 1, fake.getCalls)

	// The second read is served from memory without touching the
	// durable tier again
	_, found = c.Get(context.Background(), key)
	require.True(t, found)
	assert.Equal(t, 1, fake.getCalls)
}

func TestGetDropsMalformedDurableEntry(t *testing.T) {
	fake := newFakeDurable()
	c, _ := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	fake.data["streetview:"+key] = "{not valid json"

	_, found := c.Get(context.Background(), key)

	assert.False(t, found, "a malformed entry reads as a plain miss")
	assert.Contains(t, fake.deletes, "streetview:"+key)
}

func TestGetDropsStaleDurableEntry(t *testing.T) {
	fake := newFakeDurable()
	c, current := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	entry := model.CacheEntry{
		Payload:       samplePayload(),
		CachedAt:      current.Add(-8 * 24 * time.Hour),
		SchemaVersion: SchemaVersion,
	}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	fake.data["streetview:"+key] = string(data)

	_, found := c.Get(context.Background(), key)

	assert.False(t, found)
	assert.Contains(t, fake.deletes, "streetview:"+key)
}

func TestDurableUnavailable(t *testing.T) {
	fake := newFakeDurable()
	fake.available = false
	c, _ := testCache(fake)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	c.Put(context.Background(), key, samplePayload())

	_, found := c.Get(context.Background(), key)
	assert.True(t, found, "the memory tier works without the durable one")
	assert.Equal(t, 0, fake.setCalls, "no durable writes when the probe failed")
	assert.False(t, c.DurableAvailable())
}

func TestNilDurable(t *testing.T) {
	c, _ := testCache(nil)
	key := Key(40.7580, -73.9855, bearingPtr(0))

	c.Put(context.Background(), key, samplePayload())

	_, found := c.Get(context.Background(), key)
	assert.True(t, found)
	assert.False(t, c.DurableAvailable())
}

func TestSweep(t *testing.T) {
	c, current := testCache(newFakeDurable())

	c.Put(context.Background(), Key(40.70, -74.00, bearingPtr(0)), samplePayload())
	c.Put(context.Background(), Key(40.71, -74.00, bearingPtr(0)), samplePayload())

	*current = current.Add(8 * 24 * time.Hour)
	c.Put(context.Background(), Key(40.72, -74.00, bearingPtr(0)), samplePayload())

	removed := c.Sweep()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Count())
}
