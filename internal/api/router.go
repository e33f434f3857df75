package api

import (
	routes "gridwalk/internal/api/handlers"

	"github.com/gin-gonic/gin"

	"gridwalk/internal/intersection"
	"gridwalk/internal/service/cache"
	"gridwalk/internal/service/imagery"
	"gridwalk/internal/service/session"
)

// Dependencies carries the services the route handlers close over
type Dependencies struct {
	Imagery  *imagery.Service
	Sessions *session.SessionService
	Cache    *cache.StreetViewCache
	Graph    *intersection.Graph
}

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, deps Dependencies) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), deps.Sessions, deps.Cache, deps.Graph != nil)

	// Setup street view handlers
	routes.SetupStreetViewHandlers(api, deps.Imagery)

	// Setup session handlers
	routes.SetupSessionHandlers(api, deps.Sessions)

	// Intersection endpoints need a loaded graph
	if deps.Graph != nil {
		routes.SetupIntersectionHandlers(api, deps.Graph)
	}
}
