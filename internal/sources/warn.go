package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/utils"
)

// WarnRecord is one parsed layoff filing. Raw spellings are kept so
// the importer can preserve them; Extra carries any column the alias
// table does not claim.
type WarnRecord struct {
	Employer      string
	City          string
	County        string
	Industry      string
	Impacted      *int
	NoticeDate    time.Time
	EffectiveDate *time.Time
	ReceivedDate  *time.Time
	Notes         string
	Address       string
	Zip           string
	Extra         map[string]string
	SourceURL     string
}

// WarnSource fetches the Commerce WARN CSV. Candidate URLs are tried
// in priority order; a response only counts if it looks tabular. When
// every URL fails the manually maintained CSV file is the fallback.
type WarnSource struct {
	client    *Client
	endpoints []string
	csvPath   string
	log       *logger.Logger
}

func NewWarnSource(client *Client, endpoints []string, fallbackCSV string, baseLog *logger.Logger) *WarnSource {
	log := baseLog.With("source", "warn")
	csvPath := utils.GetEnv("WARN_CSV_PATH", fallbackCSV, log)
	return &WarnSource{client: client, endpoints: endpoints, csvPath: csvPath, log: log}
}

func (s *WarnSource) Fetch(ctx context.Context) ([]WarnRecord, error) {
	csvText, sourceURL := s.fetchCSV(ctx)
	if csvText == "" {
		var err error
		csvText, err = s.readFallback()
		if err != nil {
			return nil, fmt.Errorf("warn: no data source available: %w", err)
		}
		sourceURL = s.csvPath
	}
	return s.parseCSV(csvText, sourceURL)
}

func (s *WarnSource) fetchCSV(ctx context.Context) (string, string) {
	for _, url := range s.endpoints {
		text, err := s.client.GetText(ctx, url, "text/csv, application/csv, text/plain, */*")
		if err != nil {
			s.log.Warn("WARN CSV candidate failed", "url", url, "error", err)
			continue
		}
		if looksLikeWarnCSV(text) {
			s.log.Info("Fetched WARN CSV", "url", url)
			return text, url
		}
		s.log.Warn("WARN CSV candidate not tabular", "url", url)
	}
	return "", ""
}

// looksLikeWarnCSV is a shape sniff, not a parse: commas plus an
// employer-ish header keep HTML error pages out of the parser.
func looksLikeWarnCSV(text string) bool {
	return strings.Contains(text, ",") &&
		(strings.Contains(text, "Company") || strings.Contains(text, "Employer"))
}

func (s *WarnSource) readFallback() (string, error) {
	if s.csvPath == "" {
		return "", fmt.Errorf("no fallback CSV configured")
	}
	raw, err := os.ReadFile(s.csvPath)
	if err != nil {
		return "", err
	}
	s.log.Info("Reading WARN data from fallback CSV", "path", s.csvPath)
	return string(raw), nil
}

func (s *WarnSource) parseCSV(csvText, sourceURL string) ([]WarnRecord, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("warn: parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []WarnRecord
	dropped := 0
	for _, cells := range rows[1:] {
		row := map[string]string{}
		for i, cell := range cells {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(cell)
			}
		}

		employer := getField(row, "employer")
		county := getField(row, "county")
		noticeDate := parseDate(getField(row, "notice_date"))
		if employer == "" || county == "" || noticeDate == nil {
			dropped++
			continue
		}

		extra := map[string]string{}
		for col, val := range row {
			if !knownColumns[col] && val != "" {
				extra[col] = val
			}
		}

		records = append(records, WarnRecord{
			Employer:      employer,
			City:          getField(row, "city"),
			County:        county,
			Industry:      getField(row, "industry"),
			Impacted:      parseNumber(getField(row, "impacted")),
			NoticeDate:    *noticeDate,
			EffectiveDate: parseDate(getField(row, "effective_date")),
			ReceivedDate:  parseDate(getField(row, "received_date")),
			Notes:         getField(row, "notes"),
			Address:       getField(row, "address"),
			Zip:           getField(row, "zip"),
			Extra:         extra,
			SourceURL:     sourceURL,
		})
	}
	if dropped > 0 {
		s.log.Warn("Dropped WARN rows missing required fields", "dropped", dropped)
	}
	s.log.Info("Parsed WARN notices", "count", len(records))
	return records, nil
}
