package ingest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

// QueueStats is a point-in-time status breakdown for one queue.
type QueueStats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type IngestJobRepo interface {
	Enqueue(dbc dbctx.Context, job *types.IngestJob) (*types.IngestJob, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.IngestJob, error)
	// HasRunnable reports whether a queued or running job already sits
	// on the queue, so schedulers do not pile up duplicate work.
	HasRunnable(dbc dbctx.Context, queue string) (bool, error)
	// ClaimNextRunnable atomically moves the oldest queued job on the
	// queue to running and returns it, or nil when the queue is idle.
	ClaimNextRunnable(dbc dbctx.Context, queue string) (*types.IngestJob, error)
	Heartbeat(dbc dbctx.Context, id uuid.UUID) error
	MarkCompleted(dbc dbctx.Context, id uuid.UUID, result datatypes.JSON) error
	MarkFailed(dbc dbctx.Context, id uuid.UUID, jobErr string) error
	StatsByQueue(dbc dbctx.Context, queue string) (*QueueStats, error)
	// DeleteFinishedBefore removes terminal rows that finished strictly
	// before the cutoff, at most limit per call.
	DeleteFinishedBefore(dbc dbctx.Context, cutoff time.Time, limit int) (int64, error)
}

type ingestJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestJobRepo(db *gorm.DB, baseLog *logger.Logger) IngestJobRepo {
	return &ingestJobRepo{db: db, log: baseLog.With("repo", "IngestJobRepo")}
}

func (r *ingestJobRepo) Enqueue(dbc dbctx.Context, job *types.IngestJob) (*types.IngestJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = types.JobStatusQueued
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}
	if err := transaction.WithContext(dbc.Ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *ingestJobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.IngestJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var job types.IngestJob
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ingestJobRepo) HasRunnable(dbc dbctx.Context, queue string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Where("queue = ? AND status IN ?", queue, []string{types.JobStatusQueued, types.JobStatusRunning}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// The claim is a read followed by a conditional update rather than a
// locking select, so it behaves the same on every dialect the tests
// run against. A lost race just retries with the next candidate.
func (r *ingestJobRepo) ClaimNextRunnable(dbc dbctx.Context, queue string) (*types.IngestJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	for attempt := 0; attempt < 3; attempt++ {
		var candidate types.IngestJob
		err := transaction.WithContext(dbc.Ctx).
			Where("queue = ? AND status = ?", queue, types.JobStatusQueued).
			Order("created_at ASC").
			First(&candidate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		res := transaction.WithContext(dbc.Ctx).
			Model(&types.IngestJob{}).
			Where("id = ? AND status = ?", candidate.ID, types.JobStatusQueued).
			Updates(map[string]interface{}{
				"status":       types.JobStatusRunning,
				"attempts":     gorm.Expr("attempts + 1"),
				"started_at":   now,
				"heartbeat_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		return r.GetByID(dbc, candidate.ID)
	}
	return nil, nil
}

func (r *ingestJobRepo) Heartbeat(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Where("id = ? AND status = ?", id, types.JobStatusRunning).
		Updates(map[string]interface{}{
			"heartbeat_at": now,
			"updated_at":   now,
		}).Error
}

func (r *ingestJobRepo) MarkCompleted(dbc dbctx.Context, id uuid.UUID, result datatypes.JSON) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      types.JobStatusCompleted,
			"result":      result,
			"finished_at": now,
			"updated_at":  now,
		}).Error
}

func (r *ingestJobRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, jobErr string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      types.JobStatusFailed,
			"error":       jobErr,
			"finished_at": now,
			"updated_at":  now,
		}).Error
}

func (r *ingestJobRepo) StatsByQueue(dbc dbctx.Context, queue string) (*QueueStats, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	stats := &QueueStats{}
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Select("status, COUNT(*) AS n").
		Where("queue = ?", queue).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		switch rw.Status {
		case types.JobStatusQueued:
			stats.Waiting = rw.N
		case types.JobStatusRunning:
			stats.Active = rw.N
		case types.JobStatusCompleted:
			stats.Completed = rw.N
		case types.JobStatusFailed:
			stats.Failed = rw.N
		}
	}
	return stats, nil
}

func (r *ingestJobRepo) DeleteFinishedBefore(dbc dbctx.Context, cutoff time.Time, limit int) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var ids []uuid.UUID
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.IngestJob{}).
		Where("status IN ? AND finished_at IS NOT NULL AND finished_at < ?",
			[]string{types.JobStatusCompleted, types.JobStatusFailed}, cutoff).
		Order("finished_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.IngestJob{})
	return res.RowsAffected, res.Error
}
