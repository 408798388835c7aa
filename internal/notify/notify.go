// Package notify publishes run-finished events so downstream
// consumers (dashboards, alerting) can react without polling the
// import_run table.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunEvent describes one finished import run.
type RunEvent struct {
	RunID    uuid.UUID     `json:"run_id"`
	Source   string        `json:"source"`
	Status   string        `json:"status"`
	Found    int           `json:"found"`
	Upserted int           `json:"upserted"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
}

type Notifier interface {
	RunFinished(ctx context.Context, ev RunEvent) error
	Close() error
}

// NopNotifier is used when no Redis is configured.
type NopNotifier struct{}

func (NopNotifier) RunFinished(context.Context, RunEvent) error { return nil }
func (NopNotifier) Close() error                                { return nil }
