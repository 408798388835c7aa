package ingest

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type CompanyRepo interface {
	GetBySlug(dbc dbctx.Context, slug string) (*types.Company, error)
	// GetOrCreate looks up by slug and creates on first sighting. A
	// duplicate-key error on insert is treated as "another worker got
	// there first" and resolved by re-reading.
	GetOrCreate(dbc dbctx.Context, name, slug, rawName string) (*types.Company, error)
	// AppendNameVariation records a raw spelling not seen before.
	// Variations only ever grow.
	AppendNameVariation(dbc dbctx.Context, company *types.Company, rawName string) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (r *companyRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Company, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var company types.Company
	err := transaction.WithContext(dbc.Ctx).Where("slug = ?", slug).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) GetOrCreate(dbc dbctx.Context, name, slug, rawName string) (*types.Company, error) {
	existing, err := r.GetBySlug(dbc, slug)
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
	variations, err := json.Marshal([]string{rawName})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	company := &types.Company{
		Name:           name,
		Slug:           slug,
		NameVariations: datatypes.JSON(variations),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	createErr := transaction.WithContext(dbc.Ctx).Create(company).Error
	if createErr == nil {
		return company, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		r.log.Debug("Company created concurrently, re-reading", "slug", slug)
		return r.GetBySlug(dbc, slug)
	}
	return nil, createErr
}

func (r *companyRepo) AppendNameVariation(dbc dbctx.Context, company *types.Company, rawName string) error {
	var variations []string
	if len(company.NameVariations) > 0 {
		if err := json.Unmarshal(company.NameVariations, &variations); err != nil {
			return err
		}
	}
	for _, v := range variations {
		if v == rawName {
			return nil
		}
	}
	variations = append(variations, rawName)
	raw, err := json.Marshal(variations)
	if err != nil {
		return err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]interface{}{
			"name_variations": datatypes.JSON(raw),
			"updated_at":      time.Now().UTC(),
		}).Error; err != nil {
		return err
	}
	company.NameVariations = datatypes.JSON(raw)
	return nil
}
