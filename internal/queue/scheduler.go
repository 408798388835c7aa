package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ncwatch/ncwatch-backend/internal/config"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

// Scheduler installs one cron entry per enabled source plus the queue
// clean entry. Enqueue's no-pile-up check keeps a slow run from
// stacking work behind itself.
type Scheduler struct {
	cron   *cron.Cron
	queues *Queues
	cfg    *config.Config
	log    *logger.Logger
}

func NewScheduler(queues *Queues, cfg *config.Config, baseLog *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		queues: queues,
		cfg:    cfg,
		log:    baseLog.With("component", "Scheduler"),
	}
}

// ScheduleAll registers every enabled source and starts the cron.
func (s *Scheduler) ScheduleAll(ctx context.Context) error {
	for _, source := range types.Sources {
		sc := s.cfg.Source(source)
		if !sc.IsEnabled() {
			s.log.Info("Source disabled, not scheduling", "source", source)
			continue
		}
		source := source
		if _, err := s.cron.AddFunc(sc.Schedule, func() {
			if _, err := s.queues.Enqueue(ctx, source, types.JobKindScheduled); err != nil {
				s.log.Error("Scheduled enqueue failed", "queue", source, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", source, sc.Schedule, err)
		}
		s.log.Info("Scheduled source", "source", source, "schedule", sc.Schedule)
	}

	retention := time.Duration(s.cfg.Queue.RetentionHours) * time.Hour
	limit := s.cfg.Queue.CleanLimit
	if _, err := s.cron.AddFunc(s.cfg.Queue.CleanSchedule, func() {
		if _, err := s.queues.Clean(ctx, retention, limit); err != nil {
			s.log.Error("Queue clean failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule queue clean (%q): %w", s.cfg.Queue.CleanSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron and waits for in-flight entries.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
