package ingest

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// ImportRun is the audit record for one ingestion attempt. It is
// created before the fetch so a total failure still leaves a trace,
// and never mutated once in a terminal status.
type ImportRun struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Source        string     `gorm:"column:source;not null;index" json:"source"`
	Status        string     `gorm:"column:status;not null;index" json:"status"`
	StartedAt     time.Time  `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt    *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	ItemsFound    int        `gorm:"column:items_found;not null;default:0" json:"items_found"`
	ItemsUpserted int        `gorm:"column:items_upserted;not null;default:0" json:"items_upserted"`
	ItemsSkipped  int        `gorm:"column:items_skipped;not null;default:0" json:"items_skipped"`
	ErrorSummary  *string    `gorm:"column:error_summary;type:text" json:"error_summary,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (ImportRun) TableName() string { return "import_run" }
