package db

import (
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Geography (seeded)
		&types.State{},
		&types.County{},

		// Entities resolved during reconciliation
		&types.Company{},

		// Stored records, one table per source kind
		&types.WarnNotice{},
		&types.WeatherAlert{},
		&types.Outage{},
		&types.Recall{},
		&types.ScamAlert{},
		&types.AmberAlert{},
		&types.RemoteJob{},

		// Ingestion bookkeeping
		&types.ImportRun{},
		&types.IngestJob{},
	)
}
