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

type amberFetcher interface {
	Fetch(ctx context.Context) ([]sources.AmberAlertRecord, error)
}

type AmberImporter struct {
	runner
	source amberFetcher
	ambers repos.AmberAlertRepo
	log    *logger.Logger
}

func NewAmberImporter(source amberFetcher, ambers repos.AmberAlertRepo, runs repos.ImportRunRepo, baseLog *logger.Logger) *AmberImporter {
	log := baseLog.With("importer", "amber")
	return &AmberImporter{
		runner: runner{runs: runs, log: log},
		source: source,
		ambers: ambers,
		log:    log,
	}
}

func (i *AmberImporter) Source() string { return types.SourceAmber }

func (i *AmberImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceAmber, i.reconcile)
}

func (i *AmberImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
	records, err := i.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Found: len(records)}
	for _, rec := range records {
		if err := i.reconcileRecord(dbc, rec, stats); err != nil {
			stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("amber case %s: %v", rec.CaseID, err))
			i.log.Warn("Failed to store amber alert", "case_id", rec.CaseID, "error", err)
		}
	}
	return stats, nil
}

func (i *AmberImporter) reconcileRecord(dbc dbctx.Context, rec sources.AmberAlertRecord, stats *Stats) error {
	existing, err := i.ambers.GetByCaseID(dbc, rec.CaseID)
	if err != nil {
		return err
	}
	if existing != nil {
		stats.Skipped++
		return nil
	}

	alert := &types.AmberAlert{
		CaseID:    rec.CaseID,
		Status:    rec.Status,
		Title:     rec.Title,
		IssuedAt:  rec.IssuedAt,
		SourceURL: rec.SourceURL,
	}
	if rec.Description != "" {
		alert.Description = &rec.Description
	}
	if rec.Region != "" {
		alert.Region = &rec.Region
	}
	if _, err := i.ambers.Create(dbc, alert); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}
