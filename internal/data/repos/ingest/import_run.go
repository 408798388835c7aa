package ingest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type ImportRunRepo interface {
	Create(dbc dbctx.Context, run *types.ImportRun) (*types.ImportRun, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImportRun, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListBySource(dbc dbctx.Context, source string, limit int) ([]types.ImportRun, error)
}

type importRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportRunRepo(db *gorm.DB, baseLog *logger.Logger) ImportRunRepo {
	return &importRunRepo{db: db, log: baseLog.With("repo", "ImportRunRepo")}
}

func (r *importRunRepo) Create(dbc dbctx.Context, run *types.ImportRun) (*types.ImportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.Status == "" {
		run.Status = types.RunStatusRunning
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = now
	}
	if err := transaction.WithContext(dbc.Ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *importRunRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.ImportRun
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *importRunRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.ImportRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *importRunRepo) ListBySource(dbc dbctx.Context, source string, limit int) ([]types.ImportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []types.ImportRun
	q := transaction.WithContext(dbc.Ctx).Order("started_at DESC").Limit(limit)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
