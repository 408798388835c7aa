package ingest

import (
	"testing"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
)

func TestCountyRepo_GetOrCreate(t *testing.T) {
	gdb := testutil.DB(t)
	states := NewStateRepo(gdb, testutil.Logger())
	counties := NewCountyRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	state, err := states.Create(dbc, &types.State{Code: "NC", Name: "North Carolina", Slug: "north-carolina"})
	if err != nil {
		t.Fatalf("create state: %v", err)
	}

	wake := &types.County{StateID: state.ID, FIPS: "37183", Name: "Wake", Slug: "wake"}
	created, err := counties.GetOrCreate(dbc, wake)
	if err != nil {
		t.Fatalf("create county: %v", err)
	}

	again, err := counties.GetOrCreate(dbc, &types.County{StateID: state.ID, FIPS: "37183", Name: "Wake", Slug: "wake"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("same slug must return the same row: %d vs %d", again.ID, created.ID)
	}

	byFIPS, err := counties.GetByFIPS(dbc, "37183")
	if err != nil || byFIPS == nil {
		t.Fatalf("fips lookup: %v %v", byFIPS, err)
	}
	if byFIPS.ID != created.ID {
		t.Fatalf("fips lookup returned a different row")
	}

	missing, err := counties.GetBySlug(dbc, state.ID, "atlantis")
	if err != nil {
		t.Fatalf("missing lookup: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown slug, got %+v", missing)
	}
}
