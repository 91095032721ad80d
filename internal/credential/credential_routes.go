package credential

import (
	"go-gatepass/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	credentials := r.Group("/credentials")
	credentials.Use(middleware.AuthMiddleware())
	credentials.Use(middleware.ContextLogger(logger))
	{
		credentials.GET("",
			middleware.RateLimitByUser(3, 10),
			handler.GetAll,
		)

		credentials.GET("/search",
			middleware.RateLimitByUser(3, 10),
			handler.Search,
		)

		credentials.GET("/stats",
			middleware.RateLimitByUser(5, 20),
			handler.Stats,
		)

		credentials.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetById,
		)

		credentials.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		credentials.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			handler.Update,
		)

		// Deactivation is the terminal state; there is no DELETE route
		// because records are never physically removed.
		credentials.POST("/:id/deactivate",
			middleware.RateLimitByUser(0.5, 2),
			handler.Deactivate,
		)
	}
}
