package ingest

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type StateRepo interface {
	GetByCode(dbc dbctx.Context, code string) (*types.State, error)
	Create(dbc dbctx.Context, state *types.State) (*types.State, error)
}

type stateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStateRepo(db *gorm.DB, baseLog *logger.Logger) StateRepo {
	return &stateRepo{db: db, log: baseLog.With("repo", "StateRepo")}
}

func (r *stateRepo) GetByCode(dbc dbctx.Context, code string) (*types.State, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var state types.State
	err := transaction.WithContext(dbc.Ctx).Where("code = ?", code).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *stateRepo) Create(dbc dbctx.Context, state *types.State) (*types.State, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(state).Error; err != nil {
		return nil, err
	}
	return state, nil
}

type CountyRepo interface {
	GetBySlug(dbc dbctx.Context, stateID int64, slug string) (*types.County, error)
	GetByFIPS(dbc dbctx.Context, fips string) (*types.County, error)
	// GetOrCreate resolves the concurrent first-creation race: a
	// duplicate-key error on insert means another worker won, so the
	// row is re-read instead of failing the record.
	GetOrCreate(dbc dbctx.Context, county *types.County) (*types.County, error)
}

type countyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCountyRepo(db *gorm.DB, baseLog *logger.Logger) CountyRepo {
	return &countyRepo{db: db, log: baseLog.With("repo", "CountyRepo")}
}

func (r *countyRepo) GetBySlug(dbc dbctx.Context, stateID int64, slug string) (*types.County, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var county types.County
	err := transaction.WithContext(dbc.Ctx).
		Where("state_id = ? AND slug = ?", stateID, slug).
		First(&county).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &county, nil
}

func (r *countyRepo) GetByFIPS(dbc dbctx.Context, fips string) (*types.County, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var county types.County
	err := transaction.WithContext(dbc.Ctx).Where("fips = ?", fips).First(&county).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &county, nil
}

func (r *countyRepo) GetOrCreate(dbc dbctx.Context, county *types.County) (*types.County, error) {
	existing, err := r.GetBySlug(dbc, county.StateID, county.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if county.CreatedAt.IsZero() {
		county.CreatedAt = time.Now().UTC()
	}
	createErr := transaction.WithContext(dbc.Ctx).Create(county).Error
	if createErr == nil {
		return county, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		r.log.Debug("County created concurrently, re-reading", "slug", county.Slug)
		return r.GetBySlug(dbc, county.StateID, county.Slug)
	}
	return nil, createErr
}
