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

type recallFetcher interface {
	Fetch(ctx context.Context) ([]sources.RecallRecord, error)
}

type RecallImporter struct {
	runner
	source  recallFetcher
	recalls repos.RecallRepo
	log     *logger.Logger
}

func NewRecallImporter(source recallFetcher, recalls repos.RecallRepo, runs repos.ImportRunRepo, baseLog *logger.Logger) *RecallImporter {
	log := baseLog.With("importer", "recalls")
	return &RecallImporter{
		runner:  runner{runs: runs, log: log},
		source:  source,
		recalls: recalls,
		log:     log,
	}
}

func (i *RecallImporter) Source() string { return types.SourceRecalls }

func (i *RecallImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceRecalls, i.reconcile)
}

func (i *RecallImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
	records, err := i.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Found: len(records)}
	for _, rec := range records {
		if err := i.reconcileRecord(dbc, rec, stats); err != nil {
			stats.RowErrors = append(stats.RowErrors,
				fmt.Sprintf("%s recall %s: %v", rec.Agency, rec.RecallID, err))
			i.log.Warn("Failed to store recall", "agency", rec.Agency, "recall_id", rec.RecallID, "error", err)
		}
	}
	return stats, nil
}

func (i *RecallImporter) reconcileRecord(dbc dbctx.Context, rec sources.RecallRecord, stats *Stats) error {
	existing, err := i.recalls.GetByAgencyRecallID(dbc, rec.Agency, rec.RecallID)
	if err != nil {
		return err
	}
	if existing != nil {
		stats.Skipped++
		return nil
	}

	recall := &types.Recall{
		Agency:      rec.Agency,
		RecallID:    rec.RecallID,
		Title:       rec.Title,
		PublishedAt: rec.PublishedAt,
		SourceURL:   rec.SourceURL,
	}
	if rec.Category != "" {
		recall.Category = &rec.Category
	}
	if rec.Affected != "" {
		recall.Affected = &rec.Affected
	}
	if rec.Hazard != "" {
		recall.Hazard = &rec.Hazard
	}
	if rec.Remedy != "" {
		recall.Remedy = &rec.Remedy
	}
	if _, err := i.recalls.Create(dbc, recall); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}
