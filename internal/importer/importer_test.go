package importer

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/regions"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

// testEnv wires every repo against one throwaway database with the
// geography seeded, mirroring how main assembles the importers.
type testEnv struct {
	gdb       *gorm.DB
	states    repos.StateRepo
	counties  repos.CountyRepo
	companies repos.CompanyRepo
	notices   repos.WarnNoticeRepo
	alerts    repos.WeatherAlertRepo
	outages   repos.OutageRepo
	scams     repos.ScamAlertRepo
	ambers    repos.AmberAlertRepo
	recalls   repos.RecallRepo
	jobs      repos.RemoteJobRepo
	runs      repos.ImportRunRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger()
	env := &testEnv{
		gdb:       gdb,
		states:    repos.NewStateRepo(gdb, log),
		counties:  repos.NewCountyRepo(gdb, log),
		companies: repos.NewCompanyRepo(gdb, log),
		notices:   repos.NewWarnNoticeRepo(gdb, log),
		alerts:    repos.NewWeatherAlertRepo(gdb, log),
		outages:   repos.NewOutageRepo(gdb, log),
		scams:     repos.NewScamAlertRepo(gdb, log),
		ambers:    repos.NewAmberAlertRepo(gdb, log),
		recalls:   repos.NewRecallRepo(gdb, log),
		jobs:      repos.NewRemoteJobRepo(gdb, log),
		runs:      repos.NewImportRunRepo(gdb, log),
	}
	if err := regions.Seed(testutil.Ctx(), env.states, env.counties, log); err != nil {
		t.Fatalf("seed regions: %v", err)
	}
	return env
}

// lastRun fetches the most recent audit row for a source.
func (e *testEnv) lastRun(t *testing.T, source string) *types.ImportRun {
	t.Helper()
	runs, err := e.runs.ListBySource(testutil.Ctx(), source, 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		t.Fatalf("no run recorded for %s", source)
	}
	return &runs[0]
}

type stubWarnFetcher struct {
	records []sources.WarnRecord
	err     error
}

func (s stubWarnFetcher) Fetch(context.Context) ([]sources.WarnRecord, error) {
	return s.records, s.err
}

type stubWeatherFetcher struct {
	records []sources.WeatherAlertRecord
	err     error
}

func (s stubWeatherFetcher) Fetch(context.Context) ([]sources.WeatherAlertRecord, error) {
	return s.records, s.err
}

type stubOutageFetcher struct {
	records []sources.OutageRecord
	err     error
}

func (s stubOutageFetcher) Fetch(context.Context) ([]sources.OutageRecord, error) {
	return s.records, s.err
}

type stubScamFetcher struct {
	records []sources.ScamAlertRecord
	err     error
}

func (s stubScamFetcher) Fetch(context.Context) ([]sources.ScamAlertRecord, error) {
	return s.records, s.err
}

type stubRecallFetcher struct {
	records []sources.RecallRecord
	err     error
}

func (s stubRecallFetcher) Fetch(context.Context) ([]sources.RecallRecord, error) {
	return s.records, s.err
}

type stubAmberFetcher struct {
	records []sources.AmberAlertRecord
	err     error
}

func (s stubAmberFetcher) Fetch(context.Context) ([]sources.AmberAlertRecord, error) {
	return s.records, s.err
}

type stubRemoteJobFetcher struct {
	records []sources.RemoteJobRecord
	err     error
}

func (s stubRemoteJobFetcher) Fetch(context.Context) ([]sources.RemoteJobRecord, error) {
	return s.records, s.err
}
