package repos

import (
	"gorm.io/gorm"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/ingest"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type StateRepo = ingest.StateRepo
type CountyRepo = ingest.CountyRepo
type CompanyRepo = ingest.CompanyRepo
type WarnNoticeRepo = ingest.WarnNoticeRepo

type WeatherAlertRepo = ingest.WeatherAlertRepo
type OutageRepo = ingest.OutageRepo
type RecallRepo = ingest.RecallRepo
type ScamAlertRepo = ingest.ScamAlertRepo
type AmberAlertRepo = ingest.AmberAlertRepo
type RemoteJobRepo = ingest.RemoteJobRepo

type ImportRunRepo = ingest.ImportRunRepo
type IngestJobRepo = ingest.IngestJobRepo

type QueueStats = ingest.QueueStats

func NewStateRepo(db *gorm.DB, baseLog *logger.Logger) StateRepo {
	return ingest.NewStateRepo(db, baseLog)
}
func NewCountyRepo(db *gorm.DB, baseLog *logger.Logger) CountyRepo {
	return ingest.NewCountyRepo(db, baseLog)
}
func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return ingest.NewCompanyRepo(db, baseLog)
}
func NewWarnNoticeRepo(db *gorm.DB, baseLog *logger.Logger) WarnNoticeRepo {
	return ingest.NewWarnNoticeRepo(db, baseLog)
}

func NewWeatherAlertRepo(db *gorm.DB, baseLog *logger.Logger) WeatherAlertRepo {
	return ingest.NewWeatherAlertRepo(db, baseLog)
}
func NewOutageRepo(db *gorm.DB, baseLog *logger.Logger) OutageRepo {
	return ingest.NewOutageRepo(db, baseLog)
}
func NewRecallRepo(db *gorm.DB, baseLog *logger.Logger) RecallRepo {
	return ingest.NewRecallRepo(db, baseLog)
}
func NewScamAlertRepo(db *gorm.DB, baseLog *logger.Logger) ScamAlertRepo {
	return ingest.NewScamAlertRepo(db, baseLog)
}
func NewAmberAlertRepo(db *gorm.DB, baseLog *logger.Logger) AmberAlertRepo {
	return ingest.NewAmberAlertRepo(db, baseLog)
}
func NewRemoteJobRepo(db *gorm.DB, baseLog *logger.Logger) RemoteJobRepo {
	return ingest.NewRemoteJobRepo(db, baseLog)
}

func NewImportRunRepo(db *gorm.DB, baseLog *logger.Logger) ImportRunRepo {
	return ingest.NewImportRunRepo(db, baseLog)
}
func NewIngestJobRepo(db *gorm.DB, baseLog *logger.Logger) IngestJobRepo {
	return ingest.NewIngestJobRepo(db, baseLog)
}
