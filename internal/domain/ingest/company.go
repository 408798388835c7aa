package ingest

import (
	"time"

	"gorm.io/datatypes"
)

// Company is deduplicated by slug, which is a pure function of the
// normalized name. NameVariations collects every raw spelling ever
// observed for display and re-matching; entries are appended, never
// removed.
type Company struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Slug           string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	NameVariations datatypes.JSON `gorm:"column:name_variations;type:jsonb" json:"name_variations"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Company) TableName() string { return "company" }
