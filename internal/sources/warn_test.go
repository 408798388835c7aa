package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const warnCSV = `Company Name,City,County,Industry,Employees Affected,Notice Date,Effective Date,Case Number
"Acme Manufacturing, Inc.",Raleigh,Wake,Manufacturing,"1,200",11/15/2024,01/15/2025,WARN-2024-101
Beta Logistics LLC,Durham,Durham County,Transportation,85,11/20/2024,,WARN-2024-102
,Charlotte,Mecklenburg,Retail,40,11/21/2024,,WARN-2024-103
Gamma Retail Co,Asheville,Buncombe,Retail,40,pending,,WARN-2024-104
`

func testClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(5*time.Second, "ncwatch-test/1.0", logger.NewNop())
}

func TestWarnSource_ParsesCSVAndDropsBadRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(warnCSV))
	}))
	defer srv.Close()

	source := NewWarnSource(testClient(t), []string{srv.URL}, "", logger.NewNop())
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (2 dropped), got %d", len(records))
	}

	acme := records[0]
	if acme.Employer != "Acme Manufacturing, Inc." {
		t.Fatalf("unexpected employer %q", acme.Employer)
	}
	if acme.County != "Wake" || acme.City != "Raleigh" {
		t.Fatalf("unexpected location %q / %q", acme.County, acme.City)
	}
	if acme.Impacted == nil || *acme.Impacted != 1200 {
		t.Fatalf("expected impacted 1200, got %v", acme.Impacted)
	}
	if acme.NoticeDate.Format("2006-01-02") != "2024-11-15" {
		t.Fatalf("unexpected notice date %s", acme.NoticeDate)
	}
	if acme.EffectiveDate == nil || acme.EffectiveDate.Format("2006-01-02") != "2025-01-15" {
		t.Fatalf("unexpected effective date %v", acme.EffectiveDate)
	}
	if acme.SourceURL != srv.URL {
		t.Fatalf("unexpected source url %q", acme.SourceURL)
	}
	if acme.Extra["Case Number"] != "WARN-2024-101" {
		t.Fatalf("unclaimed column not preserved: %v", acme.Extra)
	}

	beta := records[1]
	if beta.County != "Durham County" {
		t.Fatalf("raw county spelling should be preserved, got %q", beta.County)
	}
	if beta.EffectiveDate != nil {
		t.Fatalf("expected nil effective date, got %v", beta.EffectiveDate)
	}
}

func TestWarnSource_SkipsNonTabularCandidates(t *testing.T) {
	html := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer html.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(warnCSV))
	}))
	defer good.Close()

	source := NewWarnSource(testClient(t), []string{html.URL, broken.URL, good.URL}, "", logger.NewNop())
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].SourceURL != good.URL {
		t.Fatalf("expected records from last candidate, got %q", records[0].SourceURL)
	}
}

func TestWarnSource_FallsBackToFile(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	path := filepath.Join(t.TempDir(), "warn.csv")
	if err := os.WriteFile(path, []byte(warnCSV), 0o644); err != nil {
		t.Fatalf("write fallback: %v", err)
	}

	source := NewWarnSource(testClient(t), []string{broken.URL}, path, logger.NewNop())
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records from fallback, got %d", len(records))
	}
	if records[0].SourceURL != path {
		t.Fatalf("expected fallback path as source url, got %q", records[0].SourceURL)
	}
}

func TestWarnSource_NoSourceAvailable(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	source := NewWarnSource(testClient(t), []string{broken.URL}, "", logger.NewNop())
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error when every candidate and the fallback fail")
	}
}

func TestLooksLikeWarnCSV(t *testing.T) {
	if !looksLikeWarnCSV("Company Name,County\nAcme,Wake") {
		t.Fatalf("tabular text rejected")
	}
	if looksLikeWarnCSV("<html>Company Name</html>") {
		t.Fatalf("text without commas accepted")
	}
	if looksLikeWarnCSV("a,b,c\n1,2,3") {
		t.Fatalf("csv without employer header accepted")
	}
}
