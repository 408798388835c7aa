package regions

import (
	"fmt"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

// Seed ensures the NC state row and the full county table exist.
// Safe to run on every startup; existing rows are left alone.
func Seed(dbc dbctx.Context, states repos.StateRepo, counties repos.CountyRepo, log *logger.Logger) error {
	state, err := states.GetByCode(dbc, "NC")
	if err != nil {
		return fmt.Errorf("seed state: %w", err)
	}
	if state == nil {
		state, err = states.Create(dbc, &types.State{
			Code: "NC",
			Name: "North Carolina",
			Slug: "north-carolina",
		})
		if err != nil {
			return fmt.Errorf("seed state: %w", err)
		}
		log.Info("Seeded state", "code", "NC")
	}

	for _, c := range NCCounties {
		if _, err := counties.GetOrCreate(dbc, &types.County{
			StateID: state.ID,
			FIPS:    c.FIPS,
			Name:    c.Name,
			Slug:    c.Slug,
		}); err != nil {
			return fmt.Errorf("seed county %s: %w", c.Slug, err)
		}
	}
	log.Info("County table ready", "counties", len(NCCounties))
	return nil
}
