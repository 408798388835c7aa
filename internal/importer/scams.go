package importer

import (
	"context"
	"fmt"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

type scamFetcher interface {
	Fetch(ctx context.Context) ([]sources.ScamAlertRecord, error)
}

type ScamImporter struct {
	runner
	source scamFetcher
	scams  repos.ScamAlertRepo
	log    *logger.Logger
}

func NewScamImporter(source scamFetcher, scams repos.ScamAlertRepo, runs repos.ImportRunRepo, baseLog *logger.Logger) *ScamImporter {
	log := baseLog.With("importer", "scams")
	return &ScamImporter{
		runner: runner{runs: runs, log: log},
		source: source,
		scams:  scams,
		log:    log,
	}
}

func (i *ScamImporter) Source() string { return types.SourceScams }

func (i *ScamImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceScams, i.reconcile)
}

func (i *ScamImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
	records, err := i.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Found: len(records)}
	for _, rec := range records {
		if err := i.reconcileRecord(dbc, rec, stats); err != nil {
			stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("scam %s: %v", rec.SourceURL, err))
			i.log.Warn("Failed to store scam alert", "url", rec.SourceURL, "error", err)
		}
	}
	return stats, nil
}

func (i *ScamImporter) reconcileRecord(dbc dbctx.Context, rec sources.ScamAlertRecord, stats *Stats) error {
	existing, err := i.scams.GetBySourceURL(dbc, rec.SourceURL)
	if err != nil {
		return err
	}
	if existing != nil {
		stats.Skipped++
		return nil
	}

	alert := &types.ScamAlert{
		Title:       rec.Title,
		PublishedAt: rec.PublishedAt,
		SourceURL:   rec.SourceURL,
	}
	if rec.Category != "" {
		alert.Category = &rec.Category
	}
	if rec.Summary != "" {
		alert.Summary = &rec.Summary
	}
	if _, err := i.scams.Create(dbc, alert); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}
