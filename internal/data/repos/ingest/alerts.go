package ingest

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type WeatherAlertRepo interface {
	GetByURLAndCounty(dbc dbctx.Context, sourceURL string, countyID int64) (*types.WeatherAlert, error)
	Create(dbc dbctx.Context, alert *types.WeatherAlert) (*types.WeatherAlert, error)
	UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error
	// ExpireEnded flips the status of alerts whose end time has passed.
	ExpireEnded(dbc dbctx.Context, now time.Time) (int64, error)
}

type weatherAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeatherAlertRepo(db *gorm.DB, baseLog *logger.Logger) WeatherAlertRepo {
	return &weatherAlertRepo{db: db, log: baseLog.With("repo", "WeatherAlertRepo")}
}

func (r *weatherAlertRepo) GetByURLAndCounty(dbc dbctx.Context, sourceURL string, countyID int64) (*types.WeatherAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var alert types.WeatherAlert
	err := transaction.WithContext(dbc.Ctx).
		Where("source_url = ? AND county_id = ?", sourceURL, countyID).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *weatherAlertRepo) Create(dbc dbctx.Context, alert *types.WeatherAlert) (*types.WeatherAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = now
	}
	if alert.UpdatedAt.IsZero() {
		alert.UpdatedAt = now
	}
	if err := transaction.WithContext(dbc.Ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *weatherAlertRepo) UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error {
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
		Model(&types.WeatherAlert{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *weatherAlertRepo) ExpireEnded(dbc dbctx.Context, now time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.WeatherAlert{}).
		Where("ends_at IS NOT NULL AND ends_at < ? AND status <> ?", now, "expired").
		Updates(map[string]interface{}{
			"status":     "expired",
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

type OutageRepo interface {
	Create(dbc dbctx.Context, outage *types.Outage) (*types.Outage, error)
	// DeleteReportedBefore prunes snapshot rows strictly older than the
	// cutoff; a row reported exactly at the cutoff survives.
	DeleteReportedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type outageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutageRepo(db *gorm.DB, baseLog *logger.Logger) OutageRepo {
	return &outageRepo{db: db, log: baseLog.With("repo", "OutageRepo")}
}

func (r *outageRepo) Create(dbc dbctx.Context, outage *types.Outage) (*types.Outage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if outage.CreatedAt.IsZero() {
		outage.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(outage).Error; err != nil {
		return nil, err
	}
	return outage, nil
}

func (r *outageRepo) DeleteReportedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("reported_at < ?", cutoff).
		Delete(&types.Outage{})
	return res.RowsAffected, res.Error
}

type ScamAlertRepo interface {
	GetBySourceURL(dbc dbctx.Context, sourceURL string) (*types.ScamAlert, error)
	Create(dbc dbctx.Context, alert *types.ScamAlert) (*types.ScamAlert, error)
}

type scamAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScamAlertRepo(db *gorm.DB, baseLog *logger.Logger) ScamAlertRepo {
	return &scamAlertRepo{db: db, log: baseLog.With("repo", "ScamAlertRepo")}
}

func (r *scamAlertRepo) GetBySourceURL(dbc dbctx.Context, sourceURL string) (*types.ScamAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var alert types.ScamAlert
	err := transaction.WithContext(dbc.Ctx).Where("source_url = ?", sourceURL).First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *scamAlertRepo) Create(dbc dbctx.Context, alert *types.ScamAlert) (*types.ScamAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

type AmberAlertRepo interface {
	GetByCaseID(dbc dbctx.Context, caseID string) (*types.AmberAlert, error)
	Create(dbc dbctx.Context, alert *types.AmberAlert) (*types.AmberAlert, error)
}

type amberAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAmberAlertRepo(db *gorm.DB, baseLog *logger.Logger) AmberAlertRepo {
	return &amberAlertRepo{db: db, log: baseLog.With("repo", "AmberAlertRepo")}
}

func (r *amberAlertRepo) GetByCaseID(dbc dbctx.Context, caseID string) (*types.AmberAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var alert types.AmberAlert
	err := transaction.WithContext(dbc.Ctx).Where("case_id = ?", caseID).First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *amberAlertRepo) Create(dbc dbctx.Context, alert *types.AmberAlert) (*types.AmberAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}
