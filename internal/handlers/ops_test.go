package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/queue"
)

func newOpsRouter(t *testing.T) (*gin.Engine, repos.ImportRunRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.DB(t)
	log := testutil.Logger()
	jobs := repos.NewIngestJobRepo(gdb, log)
	runs := repos.NewImportRunRepo(gdb, log)
	h := NewOpsHandler(gdb, queue.NewQueues(jobs, log), runs, log)

	r := gin.New()
	r.GET("/healthz", h.Health)
	r.POST("/ops/ingest/run", h.RunIngest)
	r.GET("/ops/queues", h.QueueStats)
	r.GET("/ops/runs", h.ListRuns)
	return r, runs
}

func TestOpsHandler_Health(t *testing.T) {
	r, _ := newOpsRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestOpsHandler_RunIngest(t *testing.T) {
	r, _ := newOpsRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ops/ingest/run?source=warn", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Enqueued []string `json:"enqueued"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Enqueued) != 1 || body.Enqueued[0] != types.SourceWarn {
		t.Fatalf("expected [warn], got %v", body.Enqueued)
	}

	// An unknown source is a client error, not a server one.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ops/ingest/run?source=carrier-pigeons", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "carrier-pigeons") {
		t.Fatalf("error should name the bad source: %s", w.Body.String())
	}
}

func TestOpsHandler_QueueStats(t *testing.T) {
	r, _ := newOpsRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ops/ingest/run?source=scams", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("enqueue: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops/queues", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", w.Code, w.Body.String())
	}
	var stats map[string]struct {
		Waiting int `json:"waiting"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stats) != len(types.Sources) {
		t.Fatalf("expected an entry per queue, got %d", len(stats))
	}
	if stats[types.SourceScams].Waiting != 1 {
		t.Fatalf("scams queue should show 1 waiting: %s", w.Body.String())
	}
}

func TestOpsHandler_ListRuns(t *testing.T) {
	r, runs := newOpsRouter(t)

	if _, err := runs.Create(testutil.Ctx(), &types.ImportRun{Source: types.SourceWarn}); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	if _, err := runs.Create(testutil.Ctx(), &types.ImportRun{Source: types.SourceScams}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops/runs?source=warn", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("runs: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Runs []struct {
			Source string `json:"source"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Runs) != 1 || body.Runs[0].Source != types.SourceWarn {
		t.Fatalf("source filter not applied: %s", w.Body.String())
	}
}
