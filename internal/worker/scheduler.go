package worker

import (
	"log"

	"gridwalk/internal/service/cache"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(streetViewCache *cache.StreetViewCache) {
	log.Println("Starting all workers...")

	StartCacheJanitor(streetViewCache)

	log.Println("All workers started")
}
