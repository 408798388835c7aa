// Package importer reconciles fetched records into the store. One
// importer per source; all of them share the runner, which owns the
// ImportRun audit lifecycle and the skip-vs-abort policy: a fetch
// failure aborts the run, a bad row only costs that row.
package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const maxErrorSummaryLines = 10

// Stats is what one run's reconcile loop produces.
type Stats struct {
	Found     int
	Upserted  int
	Skipped   int
	RowErrors []string
}

// Result is the outcome of one import run, terminal status included.
type Result struct {
	RunID    uuid.UUID
	Source   string
	Status   string
	Stats    Stats
	Duration time.Duration
}

type Importer interface {
	Source() string
	Run(ctx context.Context) (*Result, error)
}

// runner brackets a reconcile function with the ImportRun lifecycle.
// The run row is created before the fetch so a total failure still
// leaves a trace.
type runner struct {
	runs repos.ImportRunRepo
	log  *logger.Logger
}

func (r *runner) run(ctx context.Context, source string, work func(ctx context.Context, dbc dbctx.Context) (*Stats, error)) (*Result, error) {
	start := time.Now()
	dbc := dbctx.New(ctx)

	run, err := r.runs.Create(dbc, &types.ImportRun{Source: source})
	if err != nil {
		return nil, err
	}

	stats, workErr := work(ctx, dbc)
	finished := time.Now().UTC()

	if workErr != nil {
		summary := workErr.Error()
		_ = r.runs.UpdateFields(dbc, run.ID, map[string]interface{}{
			"status":        types.RunStatusFailed,
			"finished_at":   finished,
			"error_summary": summary,
		})
		r.log.Error("Import failed", "source", source, "error", workErr)
		return &Result{
			RunID:    run.ID,
			Source:   source,
			Status:   types.RunStatusFailed,
			Duration: time.Since(start),
		}, workErr
	}

	status := types.RunStatusCompleted
	updates := map[string]interface{}{
		"finished_at":    finished,
		"items_found":    stats.Found,
		"items_upserted": stats.Upserted,
		"items_skipped":  stats.Skipped,
	}
	if len(stats.RowErrors) > 0 {
		status = types.RunStatusPartial
		lines := stats.RowErrors
		if len(lines) > maxErrorSummaryLines {
			lines = lines[:maxErrorSummaryLines]
		}
		updates["error_summary"] = strings.Join(lines, "\n")
	}
	updates["status"] = status
	if err := r.runs.UpdateFields(dbc, run.ID, updates); err != nil {
		return nil, err
	}

	r.log.Info("Import finished",
		"source", source,
		"status", status,
		"found", stats.Found,
		"upserted", stats.Upserted,
		"skipped", stats.Skipped,
		"errors", len(stats.RowErrors),
		"duration", time.Since(start))

	return &Result{
		RunID:    run.ID,
		Source:   source,
		Status:   status,
		Stats:    *stats,
		Duration: time.Since(start),
	}, nil
}
