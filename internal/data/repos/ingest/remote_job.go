package ingest

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type RemoteJobRepo interface {
	GetByRemoteID(dbc dbctx.Context, remoteID int64) (*types.RemoteJob, error)
	Create(dbc dbctx.Context, job *types.RemoteJob) (*types.RemoteJob, error)
	UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error
	// DeletePublishedBefore prunes listings strictly older than the
	// cutoff; a listing published exactly at the cutoff survives.
	DeletePublishedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type remoteJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRemoteJobRepo(db *gorm.DB, baseLog *logger.Logger) RemoteJobRepo {
	return &remoteJobRepo{db: db, log: baseLog.With("repo", "RemoteJobRepo")}
}

func (r *remoteJobRepo) GetByRemoteID(dbc dbctx.Context, remoteID int64) (*types.RemoteJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var job types.RemoteJob
	err := transaction.WithContext(dbc.Ctx).Where("remote_id = ?", remoteID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *remoteJobRepo) Create(dbc dbctx.Context, job *types.RemoteJob) (*types.RemoteJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
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

func (r *remoteJobRepo) UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.RemoteJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *remoteJobRepo) DeletePublishedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("published_at < ?", cutoff).
		Delete(&types.RemoteJob{})
	return res.RowsAffected, res.Error
}
