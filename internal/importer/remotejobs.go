package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

type remoteJobFetcher interface {
	Fetch(ctx context.Context) ([]sources.RemoteJobRecord, error)
}

// RemoteJobImporter keys listings on the provider id. Existing rows
// are refreshed when their mutable fields drift; listings past the
// retention window are pruned at the end of each run.
type RemoteJobImporter struct {
	runner
	source        remoteJobFetcher
	jobs          repos.RemoteJobRepo
	retentionDays int
	log           *logger.Logger
}

func NewRemoteJobImporter(source remoteJobFetcher, jobs repos.RemoteJobRepo, runs repos.ImportRunRepo, retentionDays int, baseLog *logger.Logger) *RemoteJobImporter {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	log := baseLog.With("importer", "remote-jobs")
	return &RemoteJobImporter{
		runner:        runner{runs: runs, log: log},
		source:        source,
		jobs:          jobs,
		retentionDays: retentionDays,
		log:           log,
	}
}

func (i *RemoteJobImporter) Source() string { return types.SourceRemoteJobs }

func (i *RemoteJobImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceRemoteJobs, i.reconcile)
}

func (i *RemoteJobImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
	records, err := i.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Found: len(records)}
	for _, rec := range records {
		if err := i.reconcileRecord(dbc, rec, stats); err != nil {
			stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("remote job %d: %v", rec.RemoteID, err))
			i.log.Warn("Failed to store remote job", "remote_id", rec.RemoteID, "error", err)
		}
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -i.retentionDays)
	pruned, err := i.jobs.DeletePublishedBefore(dbc, cutoff)
	if err != nil {
		stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("prune remote jobs: %v", err))
	} else if pruned > 0 {
		i.log.Info("Pruned aged remote job listings", "pruned", pruned)
	}
	return stats, nil
}

func (i *RemoteJobImporter) reconcileRecord(dbc dbctx.Context, rec sources.RemoteJobRecord, stats *Stats) error {
	existing, err := i.jobs.GetByRemoteID(dbc, rec.RemoteID)
	if err != nil {
		return err
	}
	if existing != nil {
		updates := jobDrift(existing, rec)
		if len(updates) == 0 {
			stats.Skipped++
			return nil
		}
		if err := i.jobs.UpdateFields(dbc, existing.ID, updates); err != nil {
			return err
		}
		stats.Upserted++
		return nil
	}

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return err
	}
	job := &types.RemoteJob{
		RemoteID:    rec.RemoteID,
		Title:       rec.Title,
		Company:     rec.Company,
		Category:    rec.Category,
		Tags:        datatypes.JSON(tags),
		JobType:     rec.JobType,
		Location:    rec.Location,
		Description: rec.Description,
		URL:         rec.URL,
		PublishedAt: rec.PublishedAt,
	}
	if rec.CompanyLogo != "" {
		job.CompanyLogo = &rec.CompanyLogo
	}
	if rec.Salary != "" {
		job.Salary = &rec.Salary
	}
	if _, err := i.jobs.Create(dbc, job); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}

func jobDrift(existing *types.RemoteJob, rec sources.RemoteJobRecord) map[string]interface{} {
	updates := map[string]interface{}{}
	if existing.Title != rec.Title {
		updates["title"] = rec.Title
	}
	if existing.URL != rec.URL {
		updates["url"] = rec.URL
	}
	if existing.Location != rec.Location {
		updates["location"] = rec.Location
	}
	if existing.JobType != rec.JobType {
		updates["job_type"] = rec.JobType
	}
	if strPtrValue(existing.Salary) != rec.Salary {
		updates["salary"] = rec.Salary
	}
	return updates
}
