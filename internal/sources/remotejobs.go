package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const affiliateTag = "?via=uwork"

type RemoteJobRecord struct {
	RemoteID    int64
	URL         string
	Title       string
	Company     string
	CompanyLogo string
	Category    string
	Tags        []string
	JobType     string
	Location    string
	Salary      string
	Description string
	PublishedAt time.Time
}

type remotiveResponse struct {
	Jobs []struct {
		ID                        int64    `json:"id"`
		URL                       string   `json:"url"`
		Title                     string   `json:"title"`
		CompanyName               string   `json:"company_name"`
		CompanyLogo               string   `json:"company_logo"`
		Category                  string   `json:"category"`
		Tags                      []string `json:"tags"`
		JobType                   string   `json:"job_type"`
		PublicationDate           string   `json:"publication_date"`
		CandidateRequiredLocation string   `json:"candidate_required_location"`
		Salary                    string   `json:"salary"`
		Description               string   `json:"description"`
	} `json:"jobs"`
}

// RemoteJobSource fetches the Remotive listing API. The provider asks
// for at most four calls a day; the schedule enforces that, so there
// is no retry here on 429.
type RemoteJobSource struct {
	client   *Client
	endpoint string
	limit    int
	log      *logger.Logger
}

func NewRemoteJobSource(client *Client, endpoint string, limit int, baseLog *logger.Logger) *RemoteJobSource {
	if limit <= 0 {
		limit = 500
	}
	return &RemoteJobSource{client: client, endpoint: endpoint, limit: limit, log: baseLog.With("source", "remote-jobs")}
}

func (s *RemoteJobSource) Fetch(ctx context.Context) ([]RemoteJobRecord, error) {
	url := fmt.Sprintf("%s?limit=%d", s.endpoint, s.limit)
	var payload remotiveResponse
	if err := s.client.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	var records []RemoteJobRecord
	for _, job := range payload.Jobs {
		publishedAt, err := parseRemotiveDate(job.PublicationDate)
		if err != nil {
			s.log.Warn("Skipping job with bad publication date", "id", job.ID, "date", job.PublicationDate)
			continue
		}
		location := job.CandidateRequiredLocation
		if location == "" {
			location = "Worldwide"
		}
		records = append(records, RemoteJobRecord{
			RemoteID:    job.ID,
			URL:         AddAffiliateTag(job.URL),
			Title:       job.Title,
			Company:     job.CompanyName,
			CompanyLogo: job.CompanyLogo,
			Category:    job.Category,
			Tags:        job.Tags,
			JobType:     job.JobType,
			Location:    location,
			Salary:      job.Salary,
			Description: job.Description,
			PublishedAt: publishedAt,
		})
	}
	s.log.Info("Fetched remote jobs", "count", len(records))
	return records, nil
}

// AddAffiliateTag rewrites remotive.com links to carry the referral
// tag, dropping whatever query string the API handed back. Links to
// other hosts pass through unchanged.
func AddAffiliateTag(url string) string {
	if !strings.Contains(url, "remotive.com") {
		return url
	}
	base := url
	if idx := strings.Index(url, "?"); idx >= 0 {
		base = url[:idx]
	}
	return base + affiliateTag
}

func parseRemotiveDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized publication date %q", s)
}
