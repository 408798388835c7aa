package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const (
	AgencyNHTSA = "NHTSA"
	AgencyCPSC  = "CPSC"
	AgencyFDA   = "FDA"
)

type RecallRecord struct {
	Agency      string
	RecallID    string
	Title       string
	Category    string
	Affected    string
	Description string
	Hazard      string
	Remedy      string
	PublishedAt time.Time
	SourceURL   string
}

// RecallSource unions three federal agencies. Each agency is capped
// independently; the merged result is sorted newest-first.
type RecallSource struct {
	client       *Client
	nhtsaURL     string
	cpscURL      string
	fdaURL       string
	perAgencyCap int
	log          *logger.Logger
}

func NewRecallSource(client *Client, endpoints []string, limit int, baseLog *logger.Logger) *RecallSource {
	if limit <= 0 {
		limit = 100
	}
	s := &RecallSource{client: client, perAgencyCap: limit, log: baseLog.With("source", "recalls")}
	for _, ep := range endpoints {
		switch {
		case strings.Contains(ep, "nhtsa"):
			s.nhtsaURL = ep
		case strings.Contains(ep, "saferproducts"):
			s.cpscURL = ep
		case strings.Contains(ep, "fda.gov"):
			s.fdaURL = ep
		}
	}
	return s
}

func (s *RecallSource) Fetch(ctx context.Context) ([]RecallRecord, error) {
	var (
		mu      sync.Mutex
		records []RecallRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	collect := func(fetch func(context.Context) ([]RecallRecord, error), agency string) func() error {
		return func() error {
			recs, err := fetch(gctx)
			if err != nil {
				s.log.Error("Recall agency fetch failed", "agency", agency, "error", err)
				return nil
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		}
	}

	if s.nhtsaURL != "" {
		g.Go(collect(s.fetchNHTSA, AgencyNHTSA))
	}
	if s.cpscURL != "" {
		g.Go(collect(s.fetchCPSC, AgencyCPSC))
	}
	if s.fdaURL != "" {
		g.Go(collect(s.fetchFDA, AgencyFDA))
	}
	_ = g.Wait()

	sort.Slice(records, func(i, j int) bool {
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})
	s.log.Info("Fetched recalls", "count", len(records))
	return records, nil
}

type nhtsaResponse struct {
	Results []struct {
		NHTSACampaignNumber            string `json:"NHTSACampaignNumber"`
		Make                           string `json:"Make"`
		Model                          string `json:"Model"`
		ModelYear                      string `json:"ModelYear"`
		PotentialNumberOfUnitsAffected int    `json:"PotentialNumberofUnitsAffected"`
		Summary                        string `json:"Summary"`
		Consequence                    string `json:"Consequence"`
		Remedy                         string `json:"Remedy"`
		ReportReceivedDate             string `json:"ReportReceivedDate"`
	} `json:"results"`
}

func (s *RecallSource) fetchNHTSA(ctx context.Context) ([]RecallRecord, error) {
	url := fmt.Sprintf("%s?year=%d", s.nhtsaURL, time.Now().Year())
	var payload nhtsaResponse
	if err := s.client.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	var records []RecallRecord
	for _, item := range payload.Results {
		if len(records) >= s.perAgencyCap {
			break
		}
		if item.NHTSACampaignNumber == "" {
			continue
		}
		title := strings.TrimSpace(fmt.Sprintf("%s %s %s", item.Make, item.Model, item.ModelYear))
		if title == "" {
			title = "Vehicle Recall"
		}
		rec := RecallRecord{
			Agency:      AgencyNHTSA,
			RecallID:    item.NHTSACampaignNumber,
			Title:       title,
			Category:    "vehicle",
			Description: item.Summary,
			Hazard:      item.Consequence,
			Remedy:      item.Remedy,
			PublishedAt: parseRecallDate(item.ReportReceivedDate),
			SourceURL:   "https://www.nhtsa.gov/recalls?nhtsaId=" + item.NHTSACampaignNumber,
		}
		if item.PotentialNumberOfUnitsAffected > 0 {
			rec.Affected = fmt.Sprintf("%d units", item.PotentialNumberOfUnitsAffected)
		}
		records = append(records, rec)
	}
	return records, nil
}

type cpscRecall struct {
	RecallID      int    `json:"RecallID"`
	RecallNumber  string `json:"RecallNumber"`
	Description   string `json:"Description"`
	Title         string `json:"Title"`
	NumberOfUnits string `json:"NumberOfUnits"`
	Hazard        string `json:"Hazard"`
	Remedy        string `json:"Remedy"`
	RecallDate    string `json:"RecallDate"`
	URL           string `json:"URL"`
}

func (s *RecallSource) fetchCPSC(ctx context.Context) ([]RecallRecord, error) {
	start := time.Now().AddDate(0, 0, -90).Format("2006-01-02")
	url := fmt.Sprintf("%s?format=json&RecallDateStart=%s", s.cpscURL, start)
	var payload []cpscRecall
	if err := s.client.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	var records []RecallRecord
	for _, item := range payload {
		if len(records) >= s.perAgencyCap {
			break
		}
		id := item.RecallNumber
		if id == "" && item.RecallID > 0 {
			id = fmt.Sprintf("%d", item.RecallID)
		}
		if id == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = item.Description
		}
		if title == "" {
			title = "Product Recall"
		}
		sourceURL := item.URL
		if sourceURL == "" {
			sourceURL = fmt.Sprintf("https://www.cpsc.gov/Recalls/%d", item.RecallID)
		}
		records = append(records, RecallRecord{
			Agency:      AgencyCPSC,
			RecallID:    id,
			Title:       title,
			Category:    "product",
			Affected:    item.NumberOfUnits,
			Description: item.Description,
			Hazard:      item.Hazard,
			Remedy:      item.Remedy,
			PublishedAt: parseRecallDate(item.RecallDate),
			SourceURL:   sourceURL,
		})
	}
	return records, nil
}

type fdaResponse struct {
	Results []struct {
		RecallNumber       string `json:"recall_number"`
		EventID            string `json:"event_id"`
		ProductDescription string `json:"product_description"`
		ProductQuantity    string `json:"product_quantity"`
		ReasonForRecall    string `json:"reason_for_recall"`
		VoluntaryMandated  string `json:"voluntary_mandated"`
		ReportDate         string `json:"report_date"`
	} `json:"results"`
}

// fetchFDA tries the state-filtered query first and falls back to the
// unfiltered feed when the filter errors out.
func (s *RecallSource) fetchFDA(ctx context.Context) ([]RecallRecord, error) {
	filtered := fmt.Sprintf(`%s?search=state:"NC"&limit=%d&sort=report_date:desc`, s.fdaURL, s.perAgencyCap)
	var payload fdaResponse
	if err := s.client.GetJSON(ctx, filtered, &payload); err != nil {
		s.log.Warn("FDA state-filtered query failed, trying unfiltered", "error", err)
		unfiltered := fmt.Sprintf("%s?limit=%d&sort=report_date:desc", s.fdaURL, s.perAgencyCap)
		if err := s.client.GetJSON(ctx, unfiltered, &payload); err != nil {
			return nil, err
		}
	}

	var records []RecallRecord
	for _, item := range payload.Results {
		if len(records) >= s.perAgencyCap {
			break
		}
		id := item.RecallNumber
		if id == "" {
			id = item.EventID
		}
		if id == "" {
			continue
		}
		title := item.ProductDescription
		if title == "" {
			title = "Food Recall"
		}
		if len(title) > 200 {
			title = title[:200]
		}
		remedy := item.VoluntaryMandated
		if remedy == "" {
			remedy = "Check with retailer"
		}
		records = append(records, RecallRecord{
			Agency:      AgencyFDA,
			RecallID:    id,
			Title:       title,
			Category:    "food",
			Affected:    item.ProductQuantity,
			Description: item.ReasonForRecall,
			Hazard:      item.ReasonForRecall,
			Remedy:      remedy,
			PublishedAt: parseRecallDate(item.ReportDate),
			SourceURL:   "https://www.fda.gov/safety/recalls-market-withdrawals-safety-alerts",
		})
	}
	return records, nil
}

func parseRecallDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", "20060102", time.RFC3339, "02/01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
