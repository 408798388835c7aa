package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ncwatch/ncwatch-backend/internal/handlers"
)

type RouterConfig struct {
	OpsHandler *handlers.OpsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", cfg.OpsHandler.Health)

	ops := router.Group("/ops")
	{
		ops.POST("/ingest/run", cfg.OpsHandler.RunIngest)
		ops.GET("/queues/stats", cfg.OpsHandler.QueueStats)
		ops.GET("/runs", cfg.OpsHandler.ListRuns)
	}

	return router
}
