package importer

import (
	"context"
	"testing"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

func TestScamImporter_URLIsTheNaturalKey(t *testing.T) {
	env := newTestEnv(t)
	records := []sources.ScamAlertRecord{
		{
			Title:       "Utility Payment Scam",
			Category:    "utility",
			Summary:     "Callers demand payment.",
			PublishedAt: time.Now().UTC(),
			SourceURL:   "https://www.ncdoj.gov/utility-scam/",
		},
		{
			Title:       "Phishing Alert",
			PublishedAt: time.Now().UTC(),
			SourceURL:   "https://www.ncdoj.gov/phishing/",
		},
	}
	imp := NewScamImporter(stubScamFetcher{records: records}, env.scams, env.runs, testutil.Logger())

	result, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if result.Stats.Upserted != 2 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}

	result, err = imp.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Stats.Upserted != 0 || result.Stats.Skipped != 2 {
		t.Fatalf("same urls must skip, got %+v", result.Stats)
	}

	var alert types.ScamAlert
	if err := env.gdb.Where("source_url = ?", "https://www.ncdoj.gov/utility-scam/").First(&alert).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}
	if alert.Category == nil || *alert.Category != "utility" {
		t.Fatalf("category not stored: %v", alert.Category)
	}
}
