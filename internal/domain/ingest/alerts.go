package ingest

import "time"

// WeatherAlert is one NWS alert scoped to one county. The same alert
// id fans out to a row per affected county; (source_url, county_id)
// is the natural key.
type WeatherAlert struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CountyID    int64      `gorm:"column:county_id;not null;index;uniqueIndex:idx_weather_alert_url_county,priority:2" json:"county_id"`
	Event       string     `gorm:"column:event;not null" json:"event"`
	Status      string     `gorm:"column:status;not null;index" json:"status"`
	Severity    *string    `gorm:"column:severity" json:"severity,omitempty"`
	Certainty   *string    `gorm:"column:certainty" json:"certainty,omitempty"`
	Urgency     *string    `gorm:"column:urgency" json:"urgency,omitempty"`
	Headline    *string    `gorm:"column:headline" json:"headline,omitempty"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	StartsAt    time.Time  `gorm:"column:starts_at;not null;index" json:"starts_at"`
	EndsAt      *time.Time `gorm:"column:ends_at;index" json:"ends_at,omitempty"`
	SourceURL   string     `gorm:"column:source_url;not null;uniqueIndex:idx_weather_alert_url_county,priority:1" json:"source_url"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (WeatherAlert) TableName() string { return "weather_alert" }

// Outage is a point-in-time snapshot, not a durable fact. Rows older
// than the retention window are pruned by the outage importer.
type Outage struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CountyID       int64     `gorm:"column:county_id;not null;index" json:"county_id"`
	Utility        string    `gorm:"column:utility;not null;index" json:"utility"`
	CustomersOut   int       `gorm:"column:customers_out;not null" json:"customers_out"`
	CustomersTotal *int      `gorm:"column:customers_total" json:"customers_total,omitempty"`
	Cause          *string   `gorm:"column:cause" json:"cause,omitempty"`
	ReportedAt     time.Time `gorm:"column:reported_at;not null;index" json:"reported_at"`
	SourceURL      string    `gorm:"column:source_url;not null" json:"source_url"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (Outage) TableName() string { return "outage" }

// ScamAlert is keyed by its feed item URL; the feed never reuses one.
type ScamAlert struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Category    *string   `gorm:"column:category;index" json:"category,omitempty"`
	Summary     *string   `gorm:"column:summary;type:text" json:"summary,omitempty"`
	PublishedAt time.Time `gorm:"column:published_at;not null;index" json:"published_at"`
	SourceURL   string    `gorm:"column:source_url;not null;uniqueIndex" json:"source_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (ScamAlert) TableName() string { return "scam_alert" }

// AmberAlert is keyed by the issuing feed's case id.
type AmberAlert struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID      string    `gorm:"column:case_id;not null;uniqueIndex" json:"case_id"`
	Status      string    `gorm:"column:status;not null;index" json:"status"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	Region      *string   `gorm:"column:region" json:"region,omitempty"`
	IssuedAt    time.Time `gorm:"column:issued_at;not null;index" json:"issued_at"`
	SourceURL   string    `gorm:"column:source_url;not null" json:"source_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (AmberAlert) TableName() string { return "amber_alert" }
