// Package queue runs the durable per-source job queues: enqueueing,
// the claim/execute worker loops, and the cron schedule that feeds
// them. Each source kind is one logical queue over the ingest_job
// table, worked at concurrency one.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type Queues struct {
	jobs repos.IngestJobRepo
	log  *logger.Logger
}

func NewQueues(jobs repos.IngestJobRepo, baseLog *logger.Logger) *Queues {
	return &Queues{jobs: jobs, log: baseLog.With("component", "Queues")}
}

// Enqueue adds a job unless the queue already holds a queued or
// running one. Scheduling stays idempotent: a slow run does not pile
// up duplicates behind itself.
func (q *Queues) Enqueue(ctx context.Context, queue, kind string) (bool, error) {
	if !types.ValidSource(queue) {
		return false, fmt.Errorf("unknown queue %q: %w", queue, pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.New(ctx)

	busy, err := q.jobs.HasRunnable(dbc, queue)
	if err != nil {
		return false, err
	}
	if busy {
		q.log.Debug("Queue busy, skipping enqueue", "queue", queue, "kind", kind)
		return false, nil
	}

	if _, err := q.jobs.Enqueue(dbc, &types.IngestJob{Queue: queue, Kind: kind}); err != nil {
		return false, err
	}
	q.log.Info("Enqueued job", "queue", queue, "kind", kind)
	return true, nil
}

// RunNow enqueues a manual job on one queue, or on every queue when
// source is empty.
func (q *Queues) RunNow(ctx context.Context, source string) ([]string, error) {
	targets := types.Sources
	if source != "" {
		if !types.ValidSource(source) {
			return nil, fmt.Errorf("unknown source %q: %w", source, pkgerrors.ErrInvalidArgument)
		}
		targets = []string{source}
	}

	var enqueued []string
	for _, queue := range targets {
		ok, err := q.Enqueue(ctx, queue, types.JobKindManual)
		if err != nil {
			return enqueued, err
		}
		if ok {
			enqueued = append(enqueued, queue)
		}
	}
	return enqueued, nil
}

// Stats returns the status breakdown for every queue.
func (q *Queues) Stats(ctx context.Context) (map[string]*repos.QueueStats, error) {
	dbc := dbctx.New(ctx)
	out := map[string]*repos.QueueStats{}
	for _, queue := range types.Sources {
		stats, err := q.jobs.StatsByQueue(dbc, queue)
		if err != nil {
			return nil, err
		}
		out[queue] = stats
	}
	return out, nil
}

// Clean removes terminal job rows older than the retention window,
// at most limit per call. ImportRun stays as the permanent audit.
func (q *Queues) Clean(ctx context.Context, olderThan time.Duration, limit int) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	removed, err := q.jobs.DeleteFinishedBefore(dbctx.New(ctx), cutoff, limit)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		q.log.Info("Cleaned finished jobs", "removed", removed)
	}
	return removed, nil
}
