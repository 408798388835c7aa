package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const scamFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>NC DOJ</title>
    <item>
      <title>Attorney General Warns of Utility Payment Scam</title>
      <link>https://www.ncdoj.gov/utility-scam/</link>
      <description>&lt;p&gt;Callers are impersonating the power company &amp;amp; demanding payment.&lt;/p&gt;</description>
      <pubDate>Fri, 15 Nov 2024 09:00:00 -0500</pubDate>
    </item>
    <item>
      <title>Attorney General Announces New Staff</title>
      <link>https://www.ncdoj.gov/new-staff/</link>
      <description>Office news.</description>
      <pubDate>Fri, 15 Nov 2024 10:00:00 -0500</pubDate>
    </item>
    <item>
      <title>Consumer Protection Update</title>
      <link>https://www.ncdoj.gov/consumer-update/</link>
      <description>Phishing emails target taxpayers.</description>
      <category>Consumer Alerts</category>
      <pubDate>Fri, 15 Nov 2024 11:00:00 -0500</pubDate>
    </item>
  </channel>
</rss>`

func TestScamSource_FiltersAndCategorizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(scamFeed))
	}))
	defer srv.Close()

	source := NewScamSource(testClient(t), srv.URL, logger.NewNop())
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 scam items (press release filtered), got %d", len(records))
	}

	utility := records[0]
	if utility.Category != "phone" {
		t.Fatalf("unexpected derived category %q", utility.Category)
	}
	if utility.Summary != "Callers are impersonating the power company & demanding payment." {
		t.Fatalf("html not cleaned: %q", utility.Summary)
	}
	if utility.SourceURL != "https://www.ncdoj.gov/utility-scam/" {
		t.Fatalf("unexpected source url %q", utility.SourceURL)
	}
	if utility.PublishedAt.UTC().Hour() != 14 {
		t.Fatalf("pubDate not normalized to UTC: %v", utility.PublishedAt)
	}

	if records[1].Category != "Consumer Alerts" {
		t.Fatalf("feed category should win, got %q", records[1].Category)
	}
}

func TestIsScamContent(t *testing.T) {
	if !IsScamContent("Warning about robocalls", "", nil) {
		t.Fatalf("title keyword missed")
	}
	if !IsScamContent("Press release", "a new phishing scheme", nil) {
		t.Fatalf("description keyword missed")
	}
	if !IsScamContent("Press release", "office news", []string{"Consumer Alerts"}) {
		t.Fatalf("category keyword missed")
	}
	if IsScamContent("Budget announcement", "fiscal year numbers", nil) {
		t.Fatalf("unrelated item matched")
	}
}

func TestCategorizeScam(t *testing.T) {
	cases := []struct {
		title, summary, want string
	}{
		{"Robocall warning", "", "phone"},
		{"Phishing emails", "", "email"},
		{"Identity theft ring", "", "identity"},
		{"IRS imposters", "fake tax collectors", "tax"},
		{"Medicare fraud", "", "healthcare"},
		{"Fake electric bill", "utility shutoff threats", "utility"},
		{"Imposters claim to be government official", "", "government"},
		{"Shady website", "online storefront", "online"},
		{"Scheme targeting seniors", "elderly victims", "senior"},
		{"Miscellaneous fraud", "", "general"},
	}
	for _, c := range cases {
		if got := CategorizeScam(c.title, c.summary); got != c.want {
			t.Fatalf("CategorizeScam(%q, %q) = %q, want %q", c.title, c.summary, got, c.want)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	in := `<p>Hello &amp; welcome to   <b>NC</b>&nbsp;alerts</p>`
	want := "Hello & welcome to NC alerts"
	if got := cleanHTML(in); got != want {
		t.Fatalf("cleanHTML = %q, want %q", got, want)
	}
	if got := cleanHTML(""); got != "" {
		t.Fatalf("cleanHTML(\"\") = %q", got)
	}
}
