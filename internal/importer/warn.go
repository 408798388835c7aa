package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	"github.com/ncwatch/ncwatch-backend/internal/dedupe"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

const warnStateCode = "NC"

type warnFetcher interface {
	Fetch(ctx context.Context) ([]sources.WarnRecord, error)
}

type WarnImporter struct {
	runner
	source    warnFetcher
	states    repos.StateRepo
	counties  repos.CountyRepo
	companies repos.CompanyRepo
	notices   repos.WarnNoticeRepo
	log       *logger.Logger
}

func NewWarnImporter(
	source warnFetcher,
	states repos.StateRepo,
	counties repos.CountyRepo,
	companies repos.CompanyRepo,
	notices repos.WarnNoticeRepo,
	runs repos.ImportRunRepo,
	baseLog *logger.Logger,
) *WarnImporter {
	log := baseLog.With("importer", "warn")
	return &WarnImporter{
		runner:    runner{runs: runs, log: log},
		source:    source,
		states:    states,
		counties:  counties,
		companies: companies,
		notices:   notices,
		log:       log,
	}
}

func (i *WarnImporter) Source() string { return types.SourceWarn }

func (i *WarnImporter) Run(ctx context.Context) (*Result, error) {
	return i.run(ctx, types.SourceWarn, i.reconcile)
}

func (i *WarnImporter) reconcile(ctx context.Context, dbc dbctx.Context) (*Stats, error) {
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
				fmt.Sprintf("failed to process %s: %v", rec.Employer, err))
			i.log.Warn("Failed to process notice", "employer", rec.Employer, "error", err)
		}
	}
	return stats, nil
}

func (i *WarnImporter) reconcileRecord(dbc dbctx.Context, state *types.State, rec sources.WarnRecord, stats *Stats) error {
	hash := dedupe.Fingerprint(dedupe.Input{
		StateCode:  warnStateCode,
		OrgName:    rec.Employer,
		RegionName: rec.County,
		Date:       rec.NoticeDate,
		Impacted:   rec.Impacted,
	})

	exists, err := i.notices.ExistsByDedupeHash(dbc, hash)
	if err != nil {
		return err
	}
	if exists {
		stats.Skipped++
		return nil
	}

	company, err := resolveCompany(dbc, i.companies, rec.Employer)
	if err != nil {
		return err
	}

	// County resolution is best-effort: the notice is kept either way,
	// this importer never fabricates county rows.
	county, err := resolveCounty(dbc, i.counties, state.ID, rec.County, false)
	if err != nil {
		return err
	}
	if county == nil {
		i.log.Warn("Unresolvable county on notice", "county", rec.County, "employer", rec.Employer)
	}

	notice := &types.WarnNotice{
		StateID:        state.ID,
		CompanyID:      company.ID,
		Employer:       rec.Employer,
		CompanyNameRaw: rec.Employer,
		CountyNameRaw:  rec.County,
		Impacted:       rec.Impacted,
		NoticeDate:     rec.NoticeDate,
		EffectiveOn:    rec.EffectiveDate,
		ReceivedDate:   rec.ReceivedDate,
		SourceURL:      rec.SourceURL,
		DedupeHash:     hash,
	}
	if county != nil {
		notice.CountyID = &county.ID
	}
	if rec.City != "" {
		notice.City = &rec.City
	}
	if rec.Zip != "" {
		notice.Zip = &rec.Zip
	}
	if rec.Industry != "" {
		notice.Industry = &rec.Industry
	}
	if rec.Notes != "" {
		notice.Notes = &rec.Notes
	}
	if len(rec.Extra) > 0 || rec.Address != "" {
		extra := map[string]string{}
		for k, v := range rec.Extra {
			extra[k] = v
		}
		if rec.Address != "" {
			extra["Address"] = rec.Address
		}
		raw, err := json.Marshal(extra)
		if err != nil {
			return err
		}
		notice.Extra = datatypes.JSON(raw)
	}

	_, err = i.notices.Create(dbc, notice)
	if errors.Is(err, pkgerrors.ErrDuplicate) {
		stats.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	stats.Upserted++
	return nil
}
