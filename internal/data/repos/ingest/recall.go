package ingest

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type RecallRepo interface {
	GetByAgencyRecallID(dbc dbctx.Context, agency, recallID string) (*types.Recall, error)
	Create(dbc dbctx.Context, recall *types.Recall) (*types.Recall, error)
}

type recallRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecallRepo(db *gorm.DB, baseLog *logger.Logger) RecallRepo {
	return &recallRepo{db: db, log: baseLog.With("repo", "RecallRepo")}
}

func (r *recallRepo) GetByAgencyRecallID(dbc dbctx.Context, agency, recallID string) (*types.Recall, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var recall types.Recall
	err := transaction.WithContext(dbc.Ctx).
		Where("agency = ? AND recall_id = ?", agency, recallID).
		First(&recall).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recall, nil
}

func (r *recallRepo) Create(dbc dbctx.Context, recall *types.Recall) (*types.Recall, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if recall.CreatedAt.IsZero() {
		recall.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(recall).Error; err != nil {
		return nil, err
	}
	return recall, nil
}
