package ingest

import "time"

// State is one supported state. Seeded once at startup; the pipeline
// currently covers North Carolina only but nothing below assumes it.
type State struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"column:code;size:2;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (State) TableName() string { return "state" }

// County rows are seeded from the static FIPS table and never deleted.
// Outage and weather importers may create previously-unseen counties;
// the WARN importer never fabricates one.
type County struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StateID   int64     `gorm:"column:state_id;not null;index;uniqueIndex:idx_county_state_slug,priority:1" json:"state_id"`
	FIPS      string    `gorm:"column:fips;size:5;not null;uniqueIndex" json:"fips"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:idx_county_state_slug,priority:2" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (County) TableName() string { return "county" }
