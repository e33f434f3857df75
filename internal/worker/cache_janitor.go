package worker

import (
	"log"
	"time"

	"gridwalk/internal/config"
	"gridwalk/internal/service/cache"
)

// StartCacheJanitor starts the worker that evicts expired street view entries
func StartCacheJanitor(streetViewCache *cache.StreetViewCache) {
	ticker := time.NewTicker(config.CacheJanitorInterval)
	go func() {
		for range ticker.C {
			if removed := streetViewCache.Sweep(); removed > 0 {
				log.Println("Cache janitor evicted expired entries:", removed)
			}
		}
	}()

	log.Println("Cache janitor started with interval:", config.CacheJanitorInterval)
}
