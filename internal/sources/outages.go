package sources

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type OutageRecord struct {
	Utility        string
	County         string
	CustomersOut   int
	CustomersTotal *int
	Cause          string
	ReportedAt     time.Time
	EstimatedETR   *time.Time
	SourceURL      string
}

type outagePayload struct {
	Outages []outageItem `json:"outages"`
	Data    []outageItem `json:"data"`
}

type outageItem struct {
	County            string  `json:"county"`
	CountyName        string  `json:"countyName"`
	CustomersAffected float64 `json:"customersAffected"`
	Affected          float64 `json:"affected"`
	TotalCustomers    float64 `json:"totalCustomers"`
	ReportedAt        string  `json:"reportedAt"`
	ETR               string  `json:"etr"`
	Cause             string  `json:"cause"`
}

// utilityEndpoint pairs a provider's outage API with its display name.
type utilityEndpoint struct {
	Name      string
	URL       string
	SourceURL string
}

// OutageSource fans out to every configured utility. One provider
// being down contributes zero records, never a failed run.
type OutageSource struct {
	client    *Client
	utilities []utilityEndpoint
	log       *logger.Logger
}

func NewOutageSource(client *Client, endpoints []string, baseLog *logger.Logger) *OutageSource {
	var utilities []utilityEndpoint
	for _, ep := range endpoints {
		utilities = append(utilities, utilityEndpoint{
			Name:      utilityNameFor(ep),
			URL:       ep,
			SourceURL: ep,
		})
	}
	return &OutageSource{client: client, utilities: utilities, log: baseLog.With("source", "outages")}
}

func utilityNameFor(endpoint string) string {
	switch {
	case strings.Contains(endpoint, "duke-energy"):
		return "Duke Energy"
	case strings.Contains(endpoint, "dominionenergy"):
		return "Dominion Energy"
	default:
		return endpoint
	}
}

func (s *OutageSource) Fetch(ctx context.Context) ([]OutageRecord, error) {
	var (
		mu      sync.Mutex
		records []OutageRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, util := range s.utilities {
		util := util
		g.Go(func() error {
			recs, err := s.fetchUtility(gctx, util)
			if err != nil {
				s.log.Error("Utility fetch failed", "utility", util.Name, "error", err)
				return nil
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	s.log.Info("Fetched outages", "count", len(records))
	return records, nil
}

func (s *OutageSource) fetchUtility(ctx context.Context, util utilityEndpoint) ([]OutageRecord, error) {
	var payload outagePayload
	if err := s.client.GetJSON(ctx, util.URL, &payload); err != nil {
		return nil, err
	}
	items := payload.Outages
	if len(items) == 0 {
		items = payload.Data
	}

	now := time.Now().UTC()
	var records []OutageRecord
	for _, item := range items {
		county := item.County
		if county == "" {
			county = item.CountyName
		}
		out := int(item.CustomersAffected)
		if out == 0 {
			out = int(item.Affected)
		}
		if county == "" || out <= 0 {
			continue
		}

		rec := OutageRecord{
			Utility:      util.Name,
			County:       county,
			CustomersOut: out,
			Cause:        item.Cause,
			ReportedAt:   now,
			SourceURL:    util.SourceURL,
		}
		if item.TotalCustomers > 0 {
			total := int(item.TotalCustomers)
			rec.CustomersTotal = &total
		}
		if item.ReportedAt != "" {
			if t, err := time.Parse(time.RFC3339, item.ReportedAt); err == nil {
				rec.ReportedAt = t.UTC()
			}
		}
		if item.ETR != "" {
			if t, err := time.Parse(time.RFC3339, item.ETR); err == nil {
				rec.EstimatedETR = &t
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
