package ingest

import "time"

// Recall uses the issuing agency's own identifier as the natural key;
// no fingerprint is computed for recalls.
type Recall struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Agency      string    `gorm:"column:agency;not null;index;uniqueIndex:idx_recall_agency_recall_id,priority:1" json:"agency"`
	RecallID    string    `gorm:"column:recall_id;not null;uniqueIndex:idx_recall_agency_recall_id,priority:2" json:"recall_id"`
	Title       string    `gorm:"column:title;size:500;not null" json:"title"`
	Category    *string   `gorm:"column:category;index" json:"category,omitempty"`
	Affected    *string   `gorm:"column:affected" json:"affected,omitempty"`
	Hazard      *string   `gorm:"column:hazard;type:text" json:"hazard,omitempty"`
	Remedy      *string   `gorm:"column:remedy;type:text" json:"remedy,omitempty"`
	PublishedAt time.Time `gorm:"column:published_at;not null;index" json:"published_at"`
	SourceURL   string    `gorm:"column:source_url;not null" json:"source_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Recall) TableName() string { return "recall" }
