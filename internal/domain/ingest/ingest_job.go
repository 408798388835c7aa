package ingest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	JobKindScheduled = "scheduled"
	JobKindManual    = "manual"
)

// IngestJob is one durable queue entry. Queue is the source kind, so
// each source gets its own logical queue over the same table.
// Completed/failed rows are bookkeeping and are cleaned after a
// retention window; ImportRun is the indefinite audit trail.
type IngestJob struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Queue       string         `gorm:"column:queue;not null;index" json:"queue"`
	Kind        string         `gorm:"column:kind;not null" json:"kind"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	StartedAt   *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt  *time.Time     `gorm:"column:finished_at;index" json:"finished_at,omitempty"`
	HeartbeatAt *time.Time     `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Result      datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (IngestJob) TableName() string { return "ingest_job" }
