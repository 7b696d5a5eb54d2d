package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/handler"
	"github.com/newsroomhq/newsroom-backend/internal/middleware"
	"github.com/newsroomhq/newsroom-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	newsHandler *handler.NewsHandler,
	surfaceHandler *handler.SurfaceHandler,
	auditHandler *handler.AuditHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	news := api.Group("/news")
	{
		// Read surfaces (public)
		news.GET("/breaking", surfaceHandler.Breaking)
		news.GET("/pinned", surfaceHandler.Pinned)
		news.GET("/:id", newsHandler.Get)

		// Aggregate writes (authenticated)
		news.POST("", middleware.JWTAuth(jwtManager), newsHandler.Create)
		news.PUT("/:id", middleware.JWTAuth(jwtManager), newsHandler.Update)
		news.DELETE("/:id", middleware.JWTAuth(jwtManager), newsHandler.Delete)
		news.POST("/bulk-delete", middleware.JWTAuth(jwtManager), newsHandler.BulkDelete)
	}

	api.GET("/audit", middleware.JWTAuth(jwtManager), auditHandler.List)
}
