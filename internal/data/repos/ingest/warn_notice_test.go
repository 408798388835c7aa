package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
)

func noticeFixture(stateID, companyID int64, hash string) *types.WarnNotice {
	return &types.WarnNotice{
		StateID:        stateID,
		CompanyID:      companyID,
		Employer:       "Acme Manufacturing, Inc.",
		CompanyNameRaw: "Acme Manufacturing, Inc.",
		CountyNameRaw:  "Wake",
		NoticeDate:     time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		SourceURL:      "https://www.commerce.nc.gov/warn.csv",
		DedupeHash:     hash,
	}
}

func TestWarnNoticeRepo_DuplicateHashIsRejected(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger()
	dbc := testutil.Ctx()

	state, err := NewStateRepo(gdb, log).Create(dbc, &types.State{Code: "NC", Name: "North Carolina", Slug: "north-carolina"})
	if err != nil {
		t.Fatalf("create state: %v", err)
	}
	company, err := NewCompanyRepo(gdb, log).GetOrCreate(dbc, "acme manufacturing", "acme-manufacturing", "Acme")
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	repo := NewWarnNoticeRepo(gdb, log)
	hash := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	if _, err := repo.Create(dbc, noticeFixture(state.ID, company.ID, hash)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	exists, err := repo.ExistsByDedupeHash(dbc, hash)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("hash should exist after create")
	}

	_, err = repo.Create(dbc, noticeFixture(state.ID, company.ID, hash))
	if !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	exists, err = repo.ExistsByDedupeHash(dbc, "b0000000000000000000000000000000000000000000000000000000000000b0")
	if err != nil {
		t.Fatalf("exists other: %v", err)
	}
	if exists {
		t.Fatalf("unknown hash must not exist")
	}
}
