package ingest

import (
	"time"

	"gorm.io/datatypes"
)

// RemoteJob mirrors one provider listing. The provider id is the
// natural key; title/url and friends drift between fetches and are
// updated in place. Listings past the retention window are pruned.
type RemoteJob struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RemoteID    int64          `gorm:"column:remote_id;not null;uniqueIndex" json:"remote_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Company     string         `gorm:"column:company;not null;index" json:"company"`
	CompanyLogo *string        `gorm:"column:company_logo" json:"company_logo,omitempty"`
	Category    string         `gorm:"column:category;index" json:"category"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags"`
	JobType     string         `gorm:"column:job_type" json:"job_type"`
	Location    string         `gorm:"column:location" json:"location"`
	Salary      *string        `gorm:"column:salary" json:"salary,omitempty"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	URL         string         `gorm:"column:url;not null" json:"url"`
	PublishedAt time.Time      `gorm:"column:published_at;not null;index" json:"published_at"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (RemoteJob) TableName() string { return "remote_job" }
