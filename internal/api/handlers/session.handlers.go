package routes

import (
	"github.com/gin-gonic/gin"

	"gridwalk/internal/service/session"
)

type moveRequest struct {
	Action string `json:"action" binding:"required"`
}

// SetupSessionHandlers registers the walking session endpoints
func SetupSessionHandlers(router *gin.RouterGroup, sessions *session.SessionService) {
	group := router.Group("/session")

	group.POST("", func(c *gin.Context) {
		sess := sessions.CreateSession()
		c.JSON(201, sess.State())
	})

	group.GET("/:id", func(c *gin.Context) {
		sess, found := sessions.GetSession(c.Param("id"))
		if !found {
			c.JSON(404, gin.H{"error": "session not found"})
			return
		}
		c.JSON(200, sess.State())
	})

	group.DELETE("/:id", func(c *gin.Context) {
		if !sessions.DeleteSession(c.Param("id")) {
			c.JSON(404, gin.H{"error": "session not found"})
			return
		}
		c.JSON(200, gin.H{"status": "deleted"})
	})

	group.POST("/:id/move", func(c *gin.Context) {
		sess, found := sessions.GetSession(c.Param("id"))
		if !found {
			c.JSON(404, gin.H{"error": "session not found"})
			return
		}

		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "request body needs an action field"})
			return
		}

		state, err := sess.Apply(req.Action)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, state)
	})
}
