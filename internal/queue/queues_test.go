package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	pkgerrors "github.com/ncwatch/ncwatch-backend/internal/pkg/errors"
)

func newTestQueues(t *testing.T) (*Queues, repos.IngestJobRepo) {
	t.Helper()
	gdb := testutil.DB(t)
	jobs := repos.NewIngestJobRepo(gdb, testutil.Logger())
	return NewQueues(jobs, testutil.Logger()), jobs
}

func TestQueues_EnqueueRejectsUnknownQueue(t *testing.T) {
	q, _ := newTestQueues(t)

	_, err := q.Enqueue(context.Background(), "carrier-pigeons", types.JobKindManual)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument error, got %v", err)
	}
}

func TestQueues_EnqueueDoesNotPileUp(t *testing.T) {
	q, jobs := newTestQueues(t)
	ctx := context.Background()

	ok, err := q.Enqueue(ctx, types.SourceWarn, types.JobKindScheduled)
	if err != nil || !ok {
		t.Fatalf("first enqueue: ok=%v err=%v", ok, err)
	}

	// A queued job blocks further enqueues on the same queue.
	ok, err = q.Enqueue(ctx, types.SourceWarn, types.JobKindScheduled)
	if err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if ok {
		t.Fatalf("enqueue should skip while a job is queued")
	}

	// So does a running one.
	claimed, err := jobs.ClaimNextRunnable(testutil.Ctx(), types.SourceWarn)
	if err != nil || claimed == nil {
		t.Fatalf("claim: %v %v", claimed, err)
	}
	ok, _ = q.Enqueue(ctx, types.SourceWarn, types.JobKindScheduled)
	if ok {
		t.Fatalf("enqueue should skip while a job is running")
	}

	// Other queues are unaffected.
	ok, err = q.Enqueue(ctx, types.SourceWeather, types.JobKindScheduled)
	if err != nil || !ok {
		t.Fatalf("other queue enqueue: ok=%v err=%v", ok, err)
	}

	// Once the job is terminal the queue accepts work again.
	if err := jobs.MarkFailed(testutil.Ctx(), claimed.ID, "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	ok, err = q.Enqueue(ctx, types.SourceWarn, types.JobKindScheduled)
	if err != nil || !ok {
		t.Fatalf("enqueue after terminal job: ok=%v err=%v", ok, err)
	}
}

func TestQueues_RunNow(t *testing.T) {
	q, _ := newTestQueues(t)
	ctx := context.Background()

	_, err := q.RunNow(ctx, "carrier-pigeons")
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument error, got %v", err)
	}

	enqueued, err := q.RunNow(ctx, types.SourceScams)
	if err != nil {
		t.Fatalf("run one: %v", err)
	}
	if len(enqueued) != 1 || enqueued[0] != types.SourceScams {
		t.Fatalf("expected [scams], got %v", enqueued)
	}

	// Empty source fans out to every queue; the busy scams queue is
	// skipped without error.
	enqueued, err = q.RunNow(ctx, "")
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if len(enqueued) != len(types.Sources)-1 {
		t.Fatalf("expected %d enqueued, got %v", len(types.Sources)-1, enqueued)
	}
	for _, queue := range enqueued {
		if queue == types.SourceScams {
			t.Fatalf("busy queue should not re-enqueue")
		}
	}
}

func TestQueues_Stats(t *testing.T) {
	q, _ := newTestQueues(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, types.SourceWarn, types.JobKindManual); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	stats, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != len(types.Sources) {
		t.Fatalf("expected an entry per queue, got %d", len(stats))
	}
	if stats[types.SourceWarn].Waiting != 1 {
		t.Fatalf("warn queue should show 1 waiting, got %+v", stats[types.SourceWarn])
	}
	if stats[types.SourceWeather].Waiting != 0 {
		t.Fatalf("idle queue should be empty, got %+v", stats[types.SourceWeather])
	}
}

func TestQueues_Clean(t *testing.T) {
	gdb := testutil.DB(t)
	jobs := repos.NewIngestJobRepo(gdb, testutil.Logger())
	q := NewQueues(jobs, testutil.Logger())

	job, err := jobs.Enqueue(testutil.Ctx(), &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := gdb.Model(&types.IngestJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":      types.JobStatusCompleted,
		"finished_at": time.Now().UTC().Add(-48 * time.Hour),
	}).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if _, err := jobs.Enqueue(testutil.Ctx(), &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled}); err != nil {
		t.Fatalf("enqueue live: %v", err)
	}

	removed, err := q.Clean(context.Background(), 24*time.Hour, 100)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	var remaining int64
	if err := gdb.Model(&types.IngestJob{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("live job should survive, got %d rows", remaining)
	}
}
