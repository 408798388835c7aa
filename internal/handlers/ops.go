package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/queue"
)

// OpsHandler exposes the operational surface: health, manual run
// triggers, queue stats, and recent run history. There is no public
// read API here.
type OpsHandler struct {
	db     *gorm.DB
	queues *queue.Queues
	runs   repos.ImportRunRepo
	log    *logger.Logger
}

func NewOpsHandler(db *gorm.DB, queues *queue.Queues, runs repos.ImportRunRepo, baseLog *logger.Logger) *OpsHandler {
	return &OpsHandler{db: db, queues: queues, runs: runs, log: baseLog.With("handler", "OpsHandler")}
}

func (h *OpsHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunIngest enqueues a manual job on every queue, or on ?source= only.
func (h *OpsHandler) RunIngest(c *gin.Context) {
	source := c.Query("source")
	enqueued, err := h.queues.RunNow(c.Request.Context(), source)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Manual ingest enqueue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"enqueued": enqueued})
}

func (h *OpsHandler) QueueStats(c *gin.Context) {
	stats, err := h.queues.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Queue stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListRuns returns recent import runs, optionally for one source.
func (h *OpsHandler) ListRuns(c *gin.Context) {
	runs, err := h.runs.ListBySource(dbctx.New(c.Request.Context()), c.Query("source"), 50)
	if err != nil {
		h.log.Error("List runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "runs unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
