package importer

import (
	"context"
	"testing"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

func TestRecallImporter_AgencyScopedIDs(t *testing.T) {
	env := newTestEnv(t)
	// Same recall id under two agencies is two distinct recalls.
	records := []sources.RecallRecord{
		{
			Agency:      sources.AgencyNHTSA,
			RecallID:    "24-001",
			Title:       "ACME Roadster 2024",
			Category:    "vehicle",
			PublishedAt: time.Now().UTC(),
			SourceURL:   "https://www.nhtsa.gov/recalls?nhtsaId=24-001",
		},
		{
			Agency:      sources.AgencyCPSC,
			RecallID:    "24-001",
			Title:       "Space Heater",
			Category:    "product",
			PublishedAt: time.Now().UTC(),
			SourceURL:   "https://www.cpsc.gov/Recalls/24-001",
		},
	}
	imp := NewRecallImporter(stubRecallFetcher{records: records}, env.recalls, env.runs, testutil.Logger())

	result, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if result.Stats.Upserted != 2 {
		t.Fatalf("same id under different agencies must both store, got %+v", result.Stats)
	}

	result, err = imp.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Stats.Skipped != 2 {
		t.Fatalf("re-run must skip, got %+v", result.Stats)
	}

	var count int64
	if err := env.gdb.Model(&types.Recall{}).Count(&count).Error; err != nil {
		t.Fatalf("count recalls: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recalls, got %d", count)
	}
}
