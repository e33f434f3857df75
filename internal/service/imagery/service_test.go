package imagery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwalk/internal/mapillary"
	"gridwalk/internal/model"
	"gridwalk/internal/service/cache"
)

func testService(source ImageSource) (*Service, *cache.StreetViewCache) {
	c := cache.New(nil)
	return NewService(c, NewSelector(source)), c
}

func samplePayload() model.StreetViewPayload {
	return model.StreetViewPayload{
		Images: []model.StreetViewFrame{
			{ID: "cached-1", ImageURL: "https://example.com/cached-1.jpg"},
		},
		PreferredIndex: 0,
	}
}

func TestLookupWritesBackOnMiss(t *testing.T) {
	source := &fakeSource{images: []mapillary.Image{imageWithAngle("a", angle(10))}}
	service, _ := testService(source)

	first, err := service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))
	require.NoError(t, err)
	require.Len(t, first.Images, 1)
	assert.Equal(t, 1, source.calls)

	// The same quantized location is now served from cache
	second, err := service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestLookupCacheHitSkipsUpstream(t *testing.T) {
	source := &fakeSource{}
	service, c := testService(source)

	key := cache.Key(40.7580, -73.9855, angle(90))
	c.Put(context.Background(), key, samplePayload())

	payload, err := service.Lookup(context.Background(), 40.7580, -73.9855, angle(90))

	require.NoError(t, err)
	assert.Equal(t, samplePayload(), payload)
	assert.Equal(t, 0, source.calls)
}

func TestLookupCachesEmptyResults(t *testing.T) {
	source := &fakeSource{}
	service, _ := testService(source)

	_, err := service.Lookup(context.Background(), 40.7000, -74.0000, angle(0))
	require.NoError(t, err)

	_, err = service.Lookup(context.Background(), 40.7000, -74.0000, angle(0))
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls, "a fruitless query must not be repeated within the TTL")
}

func TestLookupDistinctBearingsAreDistinctEntries(t *testing.T) {
	source := &fakeSource{images: []mapillary.Image{imageWithAngle("a", angle(10))}}
	service, _ := testService(source)

	_, err := service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))
	require.NoError(t, err)
	_, err = service.Lookup(context.Background(), 40.7580, -73.9855, angle(90))
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
}

func TestLookupUnknownBearingIsItsOwnEntry(t *testing.T) {
	source := &fakeSource{images: []mapillary.Image{imageWithAngle("a", angle(10))}}
	service, _ := testService(source)

	payload, err := service.Lookup(context.Background(), 40.7580, -73.9855, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, payload.PreferredIndex)

	// A north-facing lookup at the same spot is a different cache entry
	_, err = service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)

	// But the bearing-less lookup itself is cached
	_, err = service.Lookup(context.Background(), 40.7580, -73.9855, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestLookupCancelledDuringUpstreamWritesNothing(t *testing.T) {
	// The source answers normally, but the request context is already
	// cancelled by the time the answer arrives
	source := &fakeSource{images: []mapillary.Image{imageWithAngle("a", angle(10))}}
	service, c := testService(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Lookup(ctx, 40.7580, -73.9855, angle(0))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Count(), "a cancelled lookup must not populate the cache")

	// A later lookup has to go upstream again
	_, err = service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestLookupPropagatesUpstreamErrors(t *testing.T) {
	source := &fakeSource{err: &mapillary.UpstreamError{StatusCode: 503, Status: "503 Service Unavailable"}}
	service, c := testService(source)

	_, err := service.Lookup(context.Background(), 40.7580, -73.9855, angle(0))

	var upstream *mapillary.UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, 0, c.Count(), "failures are never cached")
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.True(t, IsCancellation(fmt.Errorf("request failed: %w", context.Canceled)))
	assert.False(t, IsCancellation(errors.New("boom")))
	assert.False(t, IsCancellation(nil))
}
