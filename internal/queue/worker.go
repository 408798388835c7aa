package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/importer"
	"github.com/ncwatch/ncwatch-backend/internal/notify"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

// Worker claims and executes jobs. One goroutine per registered
// importer's queue, so each source runs at concurrency one while the
// sources stay independent of each other.
type Worker struct {
	jobs       repos.IngestJobRepo
	importers  map[string]importer.Importer
	notifier   notify.Notifier
	jobTimeout time.Duration
	log        *logger.Logger
}

func NewWorker(jobs repos.IngestJobRepo, importers []importer.Importer, notifier notify.Notifier, jobTimeout time.Duration, baseLog *logger.Logger) *Worker {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}
	byQueue := map[string]importer.Importer{}
	for _, imp := range importers {
		byQueue[imp.Source()] = imp
	}
	return &Worker{
		jobs:       jobs,
		importers:  byQueue,
		notifier:   notifier,
		jobTimeout: jobTimeout,
		log:        baseLog.With("component", "Worker"),
	}
}

func (w *Worker) Start(ctx context.Context) {
	for queue := range w.importers {
		go w.runLoop(ctx, queue)
	}
}

func (w *Worker) runLoop(ctx context.Context, queue string) {
	log := w.log.With("queue", queue)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Worker loop stopping")
			return
		case <-ticker.C:
			job, err := w.jobs.ClaimNextRunnable(dbctx.New(ctx), queue)
			if err != nil {
				log.Error("Claim failed", "error", err)
				continue
			}
			if job == nil {
				continue
			}
			w.execute(ctx, queue, job, log)
		}
	}
}

func (w *Worker) execute(ctx context.Context, queue string, job *types.IngestJob, log *logger.Logger) {
	imp := w.importers[queue]

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	var (
		result *importer.Result
		runErr error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Importer panic", "job_id", job.ID, "panic", r)
				runErr = fmt.Errorf("panic: %v", r)
			}
		}()
		result, runErr = imp.Run(jobCtx)
	}()

	dbc := dbctx.New(ctx)
	if runErr != nil {
		if err := w.jobs.MarkFailed(dbc, job.ID, runErr.Error()); err != nil {
			log.Error("Mark failed errored", "job_id", job.ID, "error", err)
		}
	} else {
		raw, _ := json.Marshal(map[string]interface{}{
			"run_id":   result.RunID,
			"status":   result.Status,
			"found":    result.Stats.Found,
			"upserted": result.Stats.Upserted,
			"skipped":  result.Stats.Skipped,
		})
		if err := w.jobs.MarkCompleted(dbc, job.ID, datatypes.JSON(raw)); err != nil {
			log.Error("Mark completed errored", "job_id", job.ID, "error", err)
		}
	}

	if result != nil {
		ev := notify.RunEvent{
			RunID:    result.RunID,
			Source:   result.Source,
			Status:   result.Status,
			Found:    result.Stats.Found,
			Upserted: result.Stats.Upserted,
			Skipped:  result.Stats.Skipped,
			Duration: result.Duration,
		}
		if err := w.notifier.RunFinished(ctx, ev); err != nil {
			log.Warn("Run notification failed", "error", err)
		}
	}
}
