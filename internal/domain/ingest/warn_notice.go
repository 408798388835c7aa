package ingest

import (
	"time"

	"gorm.io/datatypes"
)

// WarnNotice is a stored layoff notice. Raw field values are kept
// alongside the normalized ones for display fidelity. DedupeHash is
// assigned once and never rewritten; the unique index is what makes
// re-ingestion idempotent.
type WarnNotice struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	StateID        int64          `gorm:"column:state_id;not null;index" json:"state_id"`
	CountyID       *int64         `gorm:"column:county_id;index" json:"county_id,omitempty"`
	CompanyID      int64          `gorm:"column:company_id;not null;index" json:"company_id"`
	Employer       string         `gorm:"column:employer;not null" json:"employer"`
	CompanyNameRaw string         `gorm:"column:company_name_raw;not null" json:"company_name_raw"`
	CountyNameRaw  string         `gorm:"column:county_name_raw;not null" json:"county_name_raw"`
	City           *string        `gorm:"column:city" json:"city,omitempty"`
	Zip            *string        `gorm:"column:zip" json:"zip,omitempty"`
	Industry       *string        `gorm:"column:industry" json:"industry,omitempty"`
	Impacted       *int           `gorm:"column:impacted" json:"impacted,omitempty"`
	NoticeDate     time.Time      `gorm:"column:notice_date;not null;index" json:"notice_date"`
	EffectiveOn    *time.Time     `gorm:"column:effective_on" json:"effective_on,omitempty"`
	ReceivedDate   *time.Time     `gorm:"column:received_date" json:"received_date,omitempty"`
	Notes          *string        `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Extra          datatypes.JSON `gorm:"column:extra;type:jsonb" json:"extra,omitempty"`
	SourceURL      string         `gorm:"column:source_url;not null" json:"source_url"`
	DedupeHash     string         `gorm:"column:dedupe_hash;size:64;not null;uniqueIndex" json:"dedupe_hash"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
}

func (WarnNotice) TableName() string { return "warn_notice" }
