package routes

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gridwalk/internal/intersection"
	"gridwalk/internal/util"
)

// SetupIntersectionHandlers registers the intersection graph endpoints.
// The router only mounts this group when a graph was loaded at startup.
func SetupIntersectionHandlers(router *gin.RouterGroup, graph *intersection.Graph) {
	group := router.Group("/intersections")

	group.GET("/nearest", func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lat must be a number"})
			return
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lng must be a number"})
			return
		}

		node, distance, found := graph.Nearest(lat, lng)
		if !found {
			c.JSON(404, gin.H{"error": "no intersections loaded"})
			return
		}
		c.JSON(200, gin.H{
			"intersection":   node,
			"name":           node.Name(),
			"distanceMeters": distance,
		})
	})

	group.GET("/path", func(c *gin.Context) {
		from, err := strconv.ParseInt(c.Query("from"), 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "from must be an intersection id"})
			return
		}
		to, err := strconv.ParseInt(c.Query("to"), 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "to must be an intersection id"})
			return
		}

		path, distance, found := graph.ShortestPath(from, to)
		if !found {
			c.JSON(404, gin.H{"error": "no path between those intersections"})
			return
		}

		points := make([][2]float64, len(path))
		for i, node := range path {
			points[i] = [2]float64{node.Lat, node.Lng}
		}

		c.JSON(200, gin.H{
			"path":           path,
			"hops":           len(path),
			"distanceMeters": distance,
			"polyline":       util.EncodePolyline(points),
		})
	})

	group.GET("/street/:name", func(c *gin.Context) {
		matches := graph.FindByStreet(c.Param("name"))
		c.JSON(200, gin.H{
			"intersections": matches,
			"count":         len(matches),
		})
	})
}
