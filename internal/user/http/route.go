package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	g.POST("/users", h.Register)
	g.POST("/auth/login", h.Login)

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	usersGroup := g.Group("/users")
	usersGroup.Use(authMiddleware)
	{
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
		usersGroup.PATCH("/:id", h.Update)
		usersGroup.DELETE("/:id", h.Delete)
	}
}
