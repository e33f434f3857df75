package routes

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"gridwalk/internal/mapillary"
	"gridwalk/internal/service/imagery"
)

// SetupStreetViewHandlers registers the street view lookup endpoint
func SetupStreetViewHandlers(router *gin.RouterGroup, service *imagery.Service) {
	router.GET("/streetview", func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil || lat < -90 || lat > 90 {
			c.JSON(400, gin.H{"error": "lat must be a number between -90 and 90"})
			return
		}

		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil || lng < -180 || lng > 180 {
			c.JSON(400, gin.H{"error": "lng must be a number between -180 and 180"})
			return
		}

		// A missing bearing is an unknown viewing direction, not north
		var bearing *float64
		if raw := c.Query("bearing"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(400, gin.H{"error": "bearing must be a number"})
				return
			}
			bearing = &parsed
		}

		payload, err := service.Lookup(c.Request.Context(), lat, lng, bearing)
		if err != nil {
			status, message := classifyLookupError(err)
			if status == 0 {
				// Client went away, nothing left to answer
				return
			}
			log.Printf("Street view lookup failed for %.6f,%.6f: %v", lat, lng, err)
			c.JSON(status, gin.H{"error": message})
			return
		}

		c.JSON(200, payload)
	})
}

// classifyLookupError maps a lookup failure to an HTTP status and a
// client-safe message. A zero status means the request was cancelled
// and no response should be written.
func classifyLookupError(err error) (int, string) {
	if imagery.IsCancellation(err) {
		return 0, ""
	}
	if errors.Is(err, mapillary.ErrNoToken) {
		return 500, "street view is not configured"
	}
	var upstream *mapillary.UpstreamError
	if errors.As(err, &upstream) {
		return 502, "street view upstream request failed"
	}
	var decode *mapillary.DecodeError
	if errors.As(err, &decode) {
		return 502, "street view upstream returned a malformed response"
	}
	return 502, "street view is unavailable right now"
}
