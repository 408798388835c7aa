package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

func TestExtractCounties(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Alamance; Caswell; Orange", []string{"Alamance", "Caswell", "Orange"}},
		{"Wake County; Durham County", []string{"Wake", "Durham"}},
		{"Wake; Durham, NC", []string{"Wake"}},
		{"Coastal North Carolina", nil},
		{"", nil},
	}
	for _, c := range cases {
		if got := ExtractCounties(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ExtractCounties(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCategorizeAlert(t *testing.T) {
	cases := []struct {
		event string
		want  string
	}{
		{"Tornado Warning", "wind"},
		{"High Wind Watch", "wind"},
		{"Flash Flood Warning", "flood"},
		{"Red Flag Warning", "fire"},
		{"Excessive Heat Warning", "heat"},
		{"Winter Storm Warning", "winter"},
		{"Freeze Watch", "winter"},
		{"Hurricane Warning", "tropical"},
		{"Severe Thunderstorm Warning", "severe"},
		{"Dense Fog Advisory", "other"},
	}
	for _, c := range cases {
		if got := CategorizeAlert(c.event); got != c.want {
			t.Fatalf("CategorizeAlert(%q) = %q, want %q", c.event, got, c.want)
		}
	}
}

func TestSeverityLevel(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Extreme", 4},
		{"Severe", 3},
		{"Moderate", 2},
		{"Minor", 1},
		{"Unknown", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := SeverityLevel(c.in); got != c.want {
			t.Fatalf("SeverityLevel(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestWeatherSource_Fetch(t *testing.T) {
	body := `{
	  "features": [
	    {
	      "id": "urn:oid:2.49.0.1.840.0.abc",
	      "properties": {
	        "event": "Tornado Warning",
	        "status": "Actual",
	        "severity": "Extreme",
	        "certainty": "Observed",
	        "urgency": "Immediate",
	        "headline": "Tornado Warning issued",
	        "description": "A tornado was spotted.",
	        "instruction": "Take cover now.",
	        "effective": "2024-11-15T14:00:00-05:00",
	        "expires": "2024-11-15T15:00:00-05:00",
	        "areaDesc": "Wake; Durham",
	        "geocode": {"UGC": ["NCC183", "NCC063"]}
	      }
	    },
	    {
	      "id": "urn:oid:2.49.0.1.840.0.bad",
	      "properties": {"event": "Flood Watch", "effective": "not-a-time"}
	    }
	  ]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	source := NewWeatherSource(testClient(t), srv.URL, logger.NewNop())
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record (bad effective dropped), got %d", len(records))
	}

	rec := records[0]
	if rec.Event != "Tornado Warning" || rec.Severity != "Extreme" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !reflect.DeepEqual(rec.Counties, []string{"Wake", "Durham"}) {
		t.Fatalf("unexpected counties %v", rec.Counties)
	}
	if rec.EndsAt == nil {
		t.Fatalf("expected ends_at set")
	}
	if rec.SourceURL == "" || rec.SourceURL == srv.URL {
		t.Fatalf("expected CAP source url, got %q", rec.SourceURL)
	}
}
