package routes

import (
	"github.com/gin-gonic/gin"

	"gridwalk/internal/service/cache"
	"gridwalk/internal/service/session"
)

// SetupMainHandlers registers the main application endpoints
func SetupMainHandlers(router *gin.RouterGroup, sessions *session.SessionService, streetViewCache *cache.StreetViewCache, intersectionsLoaded bool) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":       "gridwalk",
			"sessions":      sessions.Count(),
			"cachedLookups": streetViewCache.Count(),
			"durableCache":  streetViewCache.DurableAvailable(),
			"intersections": intersectionsLoaded,
		})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}
