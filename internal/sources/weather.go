package sources

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

type WeatherAlertRecord struct {
	ID          string
	Event       string
	Status      string
	Severity    string
	Certainty   string
	Urgency     string
	Headline    string
	Description string
	Instruction string
	StartsAt    time.Time
	EndsAt      *time.Time
	Counties    []string
	Zones       []string
	SourceURL   string
}

type nwsFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Event       string `json:"event"`
		Status      string `json:"status"`
		Severity    string `json:"severity"`
		Certainty   string `json:"certainty"`
		Urgency     string `json:"urgency"`
		Headline    string `json:"headline"`
		Description string `json:"description"`
		Instruction string `json:"instruction"`
		Effective   string `json:"effective"`
		Expires     string `json:"expires"`
		AreaDesc    string `json:"areaDesc"`
		Geocode     struct {
			UGC []string `json:"UGC"`
		} `json:"geocode"`
	} `json:"properties"`
}

type nwsResponse struct {
	Features []nwsFeature `json:"features"`
}

// WeatherSource fetches active NWS alerts for the state.
type WeatherSource struct {
	client   *Client
	endpoint string
	log      *logger.Logger
}

func NewWeatherSource(client *Client, endpoint string, baseLog *logger.Logger) *WeatherSource {
	return &WeatherSource{client: client, endpoint: endpoint, log: baseLog.With("source", "weather")}
}

func (s *WeatherSource) Fetch(ctx context.Context) ([]WeatherAlertRecord, error) {
	var payload nwsResponse
	if err := s.client.GetJSON(ctx, s.endpoint, &payload); err != nil {
		return nil, err
	}

	var records []WeatherAlertRecord
	for _, feature := range payload.Features {
		props := feature.Properties
		startsAt, err := time.Parse(time.RFC3339, props.Effective)
		if err != nil {
			s.log.Warn("Skipping alert with bad effective time", "id", feature.ID, "effective", props.Effective)
			continue
		}
		var endsAt *time.Time
		if props.Expires != "" {
			if t, err := time.Parse(time.RFC3339, props.Expires); err == nil {
				endsAt = &t
			}
		}
		records = append(records, WeatherAlertRecord{
			ID:          feature.ID,
			Event:       props.Event,
			Status:      props.Status,
			Severity:    props.Severity,
			Certainty:   props.Certainty,
			Urgency:     props.Urgency,
			Headline:    props.Headline,
			Description: props.Description,
			Instruction: props.Instruction,
			StartsAt:    startsAt,
			EndsAt:      endsAt,
			Counties:    ExtractCounties(props.AreaDesc),
			Zones:       props.Geocode.UGC,
			SourceURL:   "https://alerts.weather.gov/cap/wwacapget.php?x=" + url.QueryEscape(feature.ID),
		})
	}
	s.log.Info("Fetched weather alerts", "count", len(records))
	return records, nil
}

// ExtractCounties splits an NWS areaDesc like "Alamance; Caswell;
// Orange, NC" into bare county names. State tokens are dropped and a
// trailing "County" suffix is stripped.
func ExtractCounties(areaDesc string) []string {
	if areaDesc == "" {
		return nil
	}
	var counties []string
	for _, part := range strings.Split(areaDesc, ";") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "NC") || strings.Contains(part, "North Carolina") {
			continue
		}
		if idx := strings.Index(strings.ToLower(part), " county"); idx >= 0 {
			part = strings.TrimSpace(part[:idx])
		}
		counties = append(counties, part)
	}
	return counties
}

// CategorizeAlert buckets an NWS event name into a coarse category.
func CategorizeAlert(event string) string {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "tornado") || strings.Contains(e, "wind"):
		return "wind"
	case strings.Contains(e, "flood") || strings.Contains(e, "rain"):
		return "flood"
	case strings.Contains(e, "fire") || strings.Contains(e, "red flag"):
		return "fire"
	case strings.Contains(e, "heat") || strings.Contains(e, "excessive"):
		return "heat"
	case strings.Contains(e, "winter") || strings.Contains(e, "ice") ||
		strings.Contains(e, "snow") || strings.Contains(e, "freeze"):
		return "winter"
	case strings.Contains(e, "hurricane") || strings.Contains(e, "tropical"):
		return "tropical"
	case strings.Contains(e, "thunder") || strings.Contains(e, "severe"):
		return "severe"
	default:
		return "other"
	}
}

// SeverityLevel maps NWS severity words to a sortable rank.
func SeverityLevel(severity string) int {
	switch strings.ToLower(severity) {
	case "extreme":
		return 4
	case "severe":
		return 3
	case "moderate":
		return 2
	case "minor":
		return 1
	default:
		return 0
	}
}
