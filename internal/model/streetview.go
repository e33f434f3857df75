package model

import "time"

// StreetViewFrame is a single displayable street-level photograph
type StreetViewFrame struct {
	ID           string     `json:"id"`
	ImageURL     string     `json:"imageUrl"`
	CapturedAt   *time.Time `json:"capturedAt,omitempty"`
	CompassAngle *float64   `json:"compassAngle,omitempty"`
}

// StreetViewPayload is the ordered result of an imagery lookup.
// Images keep the order the upstream returned them in; PreferredIndex
// points at the frame whose camera direction best matches the requested
// bearing. An empty payload is a valid result.
type StreetViewPayload struct {
	Images         []StreetViewFrame `json:"images"`
	PreferredIndex int               `json:"preferredIndex"`
}

// CacheEntry wraps a payload with the metadata needed for expiry and
// schema checks
type CacheEntry struct {
	Payload       StreetViewPayload `json:"payload"`
	CachedAt      time.Time         `json:"cachedAt"`
	SchemaVersion int               `json:"schemaVersion"`
}

// FreshAt reports whether the entry is still servable at the given time
func (e CacheEntry) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}
