package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item and comment routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.ListOwn)                 // Caller's items with last/next booking
		group.GET("/search", h.Search)           // Available items matching text
		group.GET("/:id", h.Get)                 // Item detail
		group.POST("", h.Create)                 // Create item
		group.PATCH("/:id", h.Update)            // Owner updates item
		group.DELETE("/:id", h.Delete)           // Owner deletes item
		group.POST("/:id/comment", h.AddComment) // Comment after a finished booking
	}
}
