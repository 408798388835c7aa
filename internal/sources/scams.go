package sources

import (
	"context"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type ScamAlertRecord struct {
	Title       string
	Category    string
	Summary     string
	PublishedAt time.Time
	SourceURL   string
}

var scamKeywords = []string{
	"scam",
	"fraud",
	"alert",
	"warning",
	"consumer",
	"phishing",
	"identity theft",
	"impersonat",
	"fake",
	"scheme",
	"deceptive",
	"robocall",
	"telemarket",
}

// ScamSource reads the NC DOJ press feed. The feed mixes press
// releases with consumer alerts, so items are keyword-filtered before
// they count as scam content.
type ScamSource struct {
	client   *Client
	endpoint string
	log      *logger.Logger
}

func NewScamSource(client *Client, endpoint string, baseLog *logger.Logger) *ScamSource {
	return &ScamSource{client: client, endpoint: endpoint, log: baseLog.With("source", "scams")}
}

func (s *ScamSource) Fetch(ctx context.Context) ([]ScamAlertRecord, error) {
	raw, err := s.client.GetText(ctx, s.endpoint, "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, err
	}
	items, err := parseRSS(raw)
	if err != nil {
		return nil, err
	}

	var records []ScamAlertRecord
	for _, item := range items {
		if !IsScamContent(item.Title, item.Description, item.Categories) {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Consumer Alert"
		}
		sourceURL := item.Link
		if sourceURL == "" {
			sourceURL = s.endpoint
		}
		category := ""
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		}
		summary := cleanHTML(item.Description)
		if category == "" {
			category = CategorizeScam(title, summary)
		}
		records = append(records, ScamAlertRecord{
			Title:       title,
			Category:    category,
			Summary:     summary,
			PublishedAt: parsePubDate(item.PubDate),
			SourceURL:   sourceURL,
		})
	}
	s.log.Info("Fetched scam alerts", "count", len(records))
	return records, nil
}

// IsScamContent reports whether a feed item is scam-related based on
// keyword presence in title, description, and categories.
func IsScamContent(title, description string, categories []string) bool {
	searchText := strings.ToLower(title + " " + description + " " + strings.Join(categories, " "))
	for _, keyword := range scamKeywords {
		if strings.Contains(searchText, keyword) {
			return true
		}
	}
	return false
}

// CategorizeScam buckets a scam item by its content keywords. Used
// when the feed item carries no category of its own.
func CategorizeScam(title, summary string) string {
	text := strings.ToLower(title + " " + summary)
	switch {
	case strings.Contains(text, "phone") || strings.Contains(text, "call") || strings.Contains(text, "robocall"):
		return "phone"
	case strings.Contains(text, "email") || strings.Contains(text, "phishing"):
		return "email"
	case strings.Contains(text, "identity") || strings.Contains(text, "theft"):
		return "identity"
	case strings.Contains(text, "tax") || strings.Contains(text, "irs"):
		return "tax"
	case strings.Contains(text, "medicare") || strings.Contains(text, "health") || strings.Contains(text, "medical"):
		return "healthcare"
	case strings.Contains(text, "utility") || strings.Contains(text, "power") || strings.Contains(text, "electric"):
		return "utility"
	case strings.Contains(text, "government") || strings.Contains(text, "official"):
		return "government"
	case strings.Contains(text, "online") || strings.Contains(text, "internet") || strings.Contains(text, "website"):
		return "online"
	case strings.Contains(text, "senior") || strings.Contains(text, "elderly"):
		return "senior"
	default:
		return "general"
	}
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
