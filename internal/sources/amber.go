package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type AmberAlertRecord struct {
	CaseID      string
	Status      string
	Title       string
	Description string
	Region      string
	IssuedAt    time.Time
	SourceURL   string
}

var stateTokenRe = regexp.MustCompile(`\b(NC|North Carolina|[A-Z]{2})\b`)

// AmberSource reads the NCMEC national feed and keeps only items that
// mention this state.
type AmberSource struct {
	client   *Client
	endpoint string
	log      *logger.Logger
}

func NewAmberSource(client *Client, endpoint string, baseLog *logger.Logger) *AmberSource {
	return &AmberSource{client: client, endpoint: endpoint, log: baseLog.With("source", "amber")}
}

func (s *AmberSource) Fetch(ctx context.Context) ([]AmberAlertRecord, error) {
	raw, err := s.client.GetText(ctx, s.endpoint, "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, err
	}
	items, err := parseRSS(raw)
	if err != nil {
		return nil, err
	}

	var records []AmberAlertRecord
	for idx, item := range items {
		region := extractRegion(item.Description)
		if !mentionsNC(region, item.Description) {
			continue
		}
		caseID := item.GUID
		if caseID == "" {
			caseID = fmt.Sprintf("ncmec-%d-%s", idx, parsePubDate(item.PubDate).Format("20060102"))
		}
		title := item.Title
		if title == "" {
			title = "AMBER Alert"
		}
		sourceURL := item.Link
		if sourceURL == "" {
			sourceURL = s.endpoint
		}
		records = append(records, AmberAlertRecord{
			CaseID:      caseID,
			Status:      "active",
			Title:       title,
			Description: cleanHTML(item.Description),
			Region:      region,
			IssuedAt:    parsePubDate(item.PubDate),
			SourceURL:   sourceURL,
		})
	}
	s.log.Info("Fetched amber alerts", "count", len(records))
	return records, nil
}

func mentionsNC(region, description string) bool {
	for _, text := range []string{region, description} {
		if strings.Contains(text, "NC") || strings.Contains(text, "North Carolina") {
			return true
		}
	}
	return false
}

func extractRegion(text string) string {
	matches := stateTokenRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.Join(matches, ", ")
}
