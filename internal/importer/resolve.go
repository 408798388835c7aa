package importer

import (
	"fmt"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/normalize"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/regions"
)

// resolveCompany maps a raw employer spelling to its Company row,
// creating the row on first sighting and appending the raw spelling
// to an existing row's variations.
func resolveCompany(dbc dbctx.Context, companies repos.CompanyRepo, rawName string) (*types.Company, error) {
	name := normalize.OrgName(rawName)
	slug := normalize.OrgSlug(rawName)
	if slug == "" {
		return nil, fmt.Errorf("employer name %q normalizes to nothing", rawName)
	}

	existing, err := companies.GetBySlug(dbc, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := companies.AppendNameVariation(dbc, existing, rawName); err != nil {
			return nil, err
		}
		return existing, nil
	}
	return companies.GetOrCreate(dbc, name, slug, rawName)
}

// resolveCounty maps a raw county spelling to its County row. With
// create set, a county known to the static FIPS table but missing
// from the store is created; a name the table does not know resolves
// to nil either way.
func resolveCounty(dbc dbctx.Context, counties repos.CountyRepo, stateID int64, rawName string, create bool) (*types.County, error) {
	slug := normalize.RegionSlug(rawName)
	if slug == "" {
		return nil, nil
	}

	county, err := counties.GetBySlug(dbc, stateID, slug)
	if err != nil {
		return nil, err
	}
	if county != nil || !create {
		return county, nil
	}

	static := regions.ByName(rawName)
	if static == nil {
		return nil, nil
	}
	return counties.GetOrCreate(dbc, &types.County{
		StateID: stateID,
		FIPS:    static.FIPS,
		Name:    static.Name,
		Slug:    static.Slug,
	})
}
