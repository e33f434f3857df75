package config

import "time"

// Imagery intervals
const (
	// CacheTTL defines how long a cached imagery payload stays servable
	CacheTTL = 7 * 24 * time.Hour

	// CacheJanitorInterval defines how often the janitor sweeps expired
	// entries from the in-memory cache tier
	CacheJanitorInterval = 10 * time.Minute

	// AutoAdvanceInterval defines how often a multi-frame view cycles to
	// the next photograph
	AutoAdvanceInterval = 3 * time.Second
)
