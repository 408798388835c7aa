package ingest

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type WarnNoticeRepo interface {
	ExistsByDedupeHash(dbc dbctx.Context, hash string) (bool, error)
	Create(dbc dbctx.Context, notice *types.WarnNotice) (*types.WarnNotice, error)
}

type warnNoticeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWarnNoticeRepo(db *gorm.DB, baseLog *logger.Logger) WarnNoticeRepo {
	return &warnNoticeRepo{db: db, log: baseLog.With("repo", "WarnNoticeRepo")}
}

func (r *warnNoticeRepo) ExistsByDedupeHash(dbc dbctx.Context, hash string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.WarnNotice{}).
		Where("dedupe_hash = ?", hash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *warnNoticeRepo) Create(dbc dbctx.Context, notice *types.WarnNotice) (*types.WarnNotice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now().UTC()
	}
	err := transaction.WithContext(dbc.Ctx).Create(notice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two runs cannot overlap on one queue, but the hash check and
		// the insert are separate statements; surface the collision as a
		// duplicate so the importer can skip instead of failing the row.
		return nil, fmt.Errorf("notice %s: %w", notice.DedupeHash, pkgerrors.ErrDuplicate)
	}
	if err != nil {
		return nil, err
	}
	return notice, nil
}
