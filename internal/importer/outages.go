package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

type outageFetcher interface {
	Fetch(ctx context.Context) ([]sources.OutageRecord, error)
}

// OutageImporter stores point-in-time snapshots, so every run inserts
// fresh rows and prunes ones past the retention window.
type OutageImporter struct {
	runner
	source        outageFetcher
	states        repos.StateRepo
	counties      repos.CountyRepo
	outages       repos.OutageRepo
	retentionDays int
	log           *logger.Logger
}

func NewOutageImporter(
	source outageFetcher,
	states repos.StateRepo,
	counties repos.CountyRepo,
	outages repos.OutageRepo,
	runs repos.ImportRunRepo,
	retentionDays int,
	baseLog *logger.Logger,
) *OutageImporter {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	log := baseLog.With("importer", "outages")
	return &OutageImporter{
		runner:        runner{runs: runs, log: log},
		source:        source,
		states:        states,
		counties:      counties,
		outages:       outages,
		retentionDays: retentionDays,
		log:           log,
	}
}

func (i *OutageImporter) Source() string { return types.SourceOutages }

func (i *OutageImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceOutages, i.reconcile)
}

func (i *OutageImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
	state, err := i.states.GetByCode(dbc, warnStateCode)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("state %s not seeded: %w", warnStateCode, pkgerrors.ErrNotFound)
	}

	records, err := i.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Found: len(records)}
	for _, rec := range records {
		if err := i.reconcileRecord(dbc, state, rec, stats); err != nil {
			stats.RowErrors = append(stats.RowErrors,
				fmt.Sprintf("%s outage in %s: %v", rec.Utility, rec.County, err))
			i.log.Warn("Failed to store outage", "utility", rec.Utility, "county", rec.County, "error", err)
		}
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -i.retentionDays)
	pruned, err := i.outages.DeleteReportedBefore(dbc, cutoff)
	if err != nil {
		stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("prune outages: %v", err))
	} else if pruned > 0 {
		i.log.Info("Pruned aged outage snapshots", "pruned", pruned)
	}
	return stats, nil
}

func (i *OutageImporter) reconcileRecord(dbc dbctx.Context, state *types.State, rec sources.OutageRecord, stats *Stats) error {
	county, err := resolveCounty(dbc, i.counties, state.ID, rec.County, true)
	if err != nil {
		return err
	}
	if county == nil {
		stats.Skipped++
		return nil
	}

	outage := &types.Outage{
		CountyID:       county.ID,
		Utility:        rec.Utility,
		CustomersOut:   rec.CustomersOut,
		CustomersTotal: rec.CustomersTotal,
		ReportedAt:     rec.ReportedAt,
		SourceURL:      rec.SourceURL,
	}
	if rec.Cause != "" {
		outage.Cause = &rec.Cause
	}
	if _, err := i.outages.Create(dbc, outage); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}
