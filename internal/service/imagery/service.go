// Package imagery orchestrates the pipeline from a viewer position to a
// displayable list of street-level photographs: cache first, image index
// on a miss, the result written back for the next visitor.
package imagery

import (
	"context"
	"errors"

	"gridwalk/internal/model"
	"gridwalk/internal/service/cache"
)

// Service resolves imagery lookups through the cache, falling back to
// the selector on a miss
type Service struct {
	cache    *cache.StreetViewCache
	selector *Selector
}

// NewService creates a service over the given cache and selector
func NewService(c *cache.StreetViewCache, selector *Selector) *Service {
	return &Service{cache: c, selector: selector}
}

// Lookup returns the frames for a (lat, lng, bearing) query; a nil
// bearing means the viewing direction is unknown. Cache hits return
// immediately; misses go upstream and the result, empty or not, is
// written back under the quantized key. A lookup cancelled mid-flight
// performs no cache write and returns the context error untouched.
func (s *Service) Lookup(ctx context.Context, lat, lng float64, bearing *float64) (model.StreetViewPayload, error) {
	key := cache.Key(lat, lng, bearing)

	if payload, ok := s.cache.Get(ctx, key); ok {
		return payload, nil
	}

	payload, err := s.selector.Select(ctx, lat, lng, bearing)
	if err != nil {
		return model.StreetViewPayload{}, err
	}

	// No write for a request that was cancelled while upstream ran
	if err := ctx.Err(); err != nil {
		return model.StreetViewPayload{}, err
	}

	s.cache.Put(ctx, key, payload)
	return payload, nil
}

// IsCancellation reports whether the error is a cancellation signal
// rather than a real failure
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
