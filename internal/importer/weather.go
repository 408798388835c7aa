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

type weatherFetcher interface {
	Fetch(ctx context.Context) ([]sources.WeatherAlertRecord, error)
}

// WeatherImporter fans each alert out to one row per affected county
// and keeps already-stored rows current as the provider amends them.
type WeatherImporter struct {
	runner
	source   weatherFetcher
	states   repos.StateRepo
	counties repos.CountyRepo
	alerts   repos.WeatherAlertRepo
	log      *logger.Logger
}

func NewWeatherImporter(
	source weatherFetcher,
	states repos.StateRepo,
	counties repos.CountyRepo,
	alerts repos.WeatherAlertRepo,
	runs repos.ImportRunRepo,
	baseLog *logger.Logger,
) *WeatherImporter {
	log := baseLog.With("importer", "weather")
	return &WeatherImporter{
		runner:   runner{runs: runs, log: log},
		source:   source,
		states:   states,
		counties: counties,
		alerts:   alerts,
		log:      log,
	}
}

func (i *WeatherImporter) Source() string { return types.SourceWeather }

func (i *WeatherImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceWeather, i.reconcile)
}

func (i *WeatherImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
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
		for _, countyName := range rec.Counties {
			if err := i.reconcileCounty(dbc, state, rec, countyName, stats); err != nil {
				stats.RowErrors = append(stats.RowErrors,
					fmt.Sprintf("alert %s county %s: %v", rec.ID, countyName, err))
				i.log.Warn("Failed to process alert county", "alert", rec.ID, "county", countyName, "error", err)
			}
		}
	}

	if _, err := i.alerts.ExpireEnded(dbc, time.Now().UTC()); err != nil {
		stats.RowErrors = append(stats.RowErrors, fmt.Sprintf("expire ended alerts: %v", err))
	}
	return stats, nil
}

func (i *WeatherImporter) reconcileCounty(dbc dbctx.Context, state *types.State, rec sources.WeatherAlertRecord, countyName string, stats *Stats) error {
	county, err := resolveCounty(dbc, i.counties, state.ID, countyName, true)
	if err != nil {
		return err
	}
	if county == nil {
		// Out-of-state or garbled areaDesc token.
		stats.Skipped++
		return nil
	}

	existing, err := i.alerts.GetByURLAndCounty(dbc, rec.SourceURL, county.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		updates := alertDrift(existing, rec)
		if len(updates) == 0 {
			stats.Skipped++
			return nil
		}
		if err := i.alerts.UpdateFields(dbc, existing.ID, updates); err != nil {
			return err
		}
		stats.Upserted++
		return nil
	}

	alert := &types.WeatherAlert{
		CountyID:  county.ID,
		Event:     rec.Event,
		Status:    rec.Status,
		StartsAt:  rec.StartsAt,
		EndsAt:    rec.EndsAt,
		SourceURL: rec.SourceURL,
	}
	if rec.Severity != "" {
		alert.Severity = &rec.Severity
	}
	if rec.Certainty != "" {
		alert.Certainty = &rec.Certainty
	}
	if rec.Urgency != "" {
		alert.Urgency = &rec.Urgency
	}
	if rec.Headline != "" {
		alert.Headline = &rec.Headline
	}
	if rec.Description != "" {
		alert.Description = &rec.Description
	}
	if _, err := i.alerts.Create(dbc, alert); err != nil {
		return err
	}
	stats.Upserted++
	return nil
}

// alertDrift diffs the mutable fields the provider amends in place.
func alertDrift(existing *types.WeatherAlert, rec sources.WeatherAlertRecord) map[string]interface{} {
	updates := map[string]interface{}{}
	if existing.Status != rec.Status {
		updates["status"] = rec.Status
	}
	if strPtrValue(existing.Severity) != rec.Severity {
		updates["severity"] = rec.Severity
	}
	if strPtrValue(existing.Headline) != rec.Headline {
		updates["headline"] = rec.Headline
	}
	if strPtrValue(existing.Description) != rec.Description {
		updates["description"] = rec.Description
	}
	if !timePtrEqual(existing.EndsAt, rec.EndsAt) {
		updates["ends_at"] = rec.EndsAt
	}
	return updates
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
