package app

import (
	"database/sql"

	"go-gatepass/internal/credential"
	"go-gatepass/internal/messaging/kafka"
	"go-gatepass/internal/scan"
	"go-gatepass/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	credentialRepo := credential.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	credentialService := credential.NewServiceWithOutbox(db, credentialRepo, counterRepo, outboxRepo, rdb)
	scanService := scan.NewService(credentialRepo, scan.NewJSONCodec())

	// --- Handlers ---
	credentialHandler := credential.NewHandlerWithRedis(credentialService, rdb)
	scanHandler := scan.NewHandler(scanService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		credential.RegisterRoutes(api, credentialHandler, rdb, logger)
		scan.RegisterRoutes(api, scanHandler, logger)
	}

	return nil
}
