package scan

import (
	"go-gatepass/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	scans := r.Group("/scan")
	scans.Use(middleware.ContextLogger(logger))
	{
		// Gate devices are not logged-in staff; their only stable identity
		// is the device address.
		scans.POST("/verify",
			middleware.RateLimitByIP(10, 30),
			handler.Verify,
		)

		scans.GET("/badge/:id",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(3, 10),
			handler.BadgeQR,
		)
	}
}
