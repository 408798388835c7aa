package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/ncwatch/ncwatch-backend/internal/data/repos/testutil"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
)

func TestIngestJobRepo_ClaimLifecycle(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	job, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if job.Status != types.JobStatusQueued {
		t.Fatalf("new job should be queued, got %q", job.Status)
	}

	claimed, err := repo.ClaimNextRunnable(dbc, types.SourceWarn)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != job.ID {
		t.Fatalf("expected to claim the enqueued job, got %+v", claimed)
	}
	if claimed.Status != types.JobStatusRunning {
		t.Fatalf("claimed job should be running, got %q", claimed.Status)
	}
	if claimed.Attempts != 1 {
		t.Fatalf("claim should bump attempts, got %d", claimed.Attempts)
	}
	if claimed.StartedAt == nil || claimed.HeartbeatAt == nil {
		t.Fatalf("claim should stamp started_at and heartbeat_at")
	}

	// The queue is drained; nothing further to claim.
	next, err := repo.ClaimNextRunnable(dbc, types.SourceWarn)
	if err != nil {
		t.Fatalf("claim empty: %v", err)
	}
	if next != nil {
		t.Fatalf("expected empty claim, got %+v", next)
	}

	if err := repo.Heartbeat(dbc, claimed.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	result, _ := json.Marshal(map[string]interface{}{"status": "completed"})
	if err := repo.MarkCompleted(dbc, claimed.ID, datatypes.JSON(result)); err != nil {
		t.Fatalf("complete: %v", err)
	}

	done, err := repo.GetByID(dbc, claimed.ID)
	if err != nil || done == nil {
		t.Fatalf("reload: %v %v", done, err)
	}
	if done.Status != types.JobStatusCompleted {
		t.Fatalf("expected completed, got %q", done.Status)
	}
	if done.FinishedAt == nil {
		t.Fatalf("completed job should carry finished_at")
	}
}

func TestIngestJobRepo_ClaimsOldestFirstPerQueue(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	base := time.Now().UTC().Add(-time.Minute)
	second, err := repo.Enqueue(dbc, &types.IngestJob{
		Queue: types.SourceWarn, Kind: types.JobKindManual, CreatedAt: base.Add(10 * time.Second), UpdatedAt: base,
	})
	if err != nil {
		t.Fatalf("enqueue second: %v", err)
	}
	first, err := repo.Enqueue(dbc, &types.IngestJob{
		Queue: types.SourceWarn, Kind: types.JobKindManual, CreatedAt: base, UpdatedAt: base,
	})
	if err != nil {
		t.Fatalf("enqueue first: %v", err)
	}
	if _, err := repo.Enqueue(dbc, &types.IngestJob{
		Queue: types.SourceWeather, Kind: types.JobKindManual, CreatedAt: base, UpdatedAt: base,
	}); err != nil {
		t.Fatalf("enqueue other queue: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(dbc, types.SourceWarn)
	if err != nil || claimed == nil {
		t.Fatalf("claim: %v %v", claimed, err)
	}
	if claimed.ID != first.ID {
		t.Fatalf("expected oldest job first, got %s (want %s)", claimed.ID, first.ID)
	}

	claimed, err = repo.ClaimNextRunnable(dbc, types.SourceWarn)
	if err != nil || claimed == nil {
		t.Fatalf("second claim: %v %v", claimed, err)
	}
	if claimed.ID != second.ID {
		t.Fatalf("expected second job, got %s", claimed.ID)
	}
}

func TestIngestJobRepo_HasRunnable(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	busy, err := repo.HasRunnable(dbc, types.SourceWarn)
	if err != nil {
		t.Fatalf("empty queue: %v", err)
	}
	if busy {
		t.Fatalf("empty queue reported busy")
	}

	job, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if busy, _ = repo.HasRunnable(dbc, types.SourceWarn); !busy {
		t.Fatalf("queued job should count as runnable")
	}

	if _, err := repo.ClaimNextRunnable(dbc, types.SourceWarn); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if busy, _ = repo.HasRunnable(dbc, types.SourceWarn); !busy {
		t.Fatalf("running job should count as runnable")
	}

	// A busy warn queue says nothing about other queues.
	if busy, _ = repo.HasRunnable(dbc, types.SourceWeather); busy {
		t.Fatalf("other queue should be idle")
	}

	if err := repo.MarkFailed(dbc, job.ID, "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if busy, _ = repo.HasRunnable(dbc, types.SourceWarn); busy {
		t.Fatalf("terminal job must not count as runnable")
	}
}

func TestIngestJobRepo_StatsByQueue(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	if _, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindManual}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindManual}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	claimed, err := repo.ClaimNextRunnable(dbc, types.SourceWarn)
	if err != nil || claimed == nil {
		t.Fatalf("claim: %v %v", claimed, err)
	}
	if err := repo.MarkFailed(dbc, claimed.ID, "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	stats, err := repo.StatsByQueue(dbc, types.SourceWarn)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Waiting != 1 || stats.Failed != 1 || stats.Active != 0 || stats.Completed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIngestJobRepo_DeleteFinishedBefore(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	cutoff := time.Now().UTC().Add(-time.Hour)

	finished := func(queue string, finishedAt time.Time) {
		t.Helper()
		job, err := repo.Enqueue(dbc, &types.IngestJob{Queue: queue, Kind: types.JobKindScheduled})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		if err := gdb.Model(&types.IngestJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":      types.JobStatusCompleted,
			"finished_at": finishedAt,
		}).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	finished(types.SourceWarn, cutoff.Add(-2*time.Hour))
	finished(types.SourceWarn, cutoff.Add(-time.Minute))
	finished(types.SourceWarn, cutoff) // exactly at the cutoff: survives
	finished(types.SourceWarn, cutoff.Add(time.Minute))
	if _, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled}); err != nil {
		t.Fatalf("enqueue live: %v", err)
	}

	removed, err := repo.DeleteFinishedBefore(dbc, cutoff, 10)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed (strictly older than cutoff), got %d", removed)
	}

	var remaining int64
	if err := gdb.Model(&types.IngestJob{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("expected 3 surviving rows, got %d", remaining)
	}
}

func TestIngestJobRepo_DeleteFinishedBeforeHonorsLimit(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewIngestJobRepo(gdb, testutil.Logger())
	dbc := testutil.Ctx()

	old := time.Now().UTC().Add(-48 * time.Hour)
	for i := 0; i < 5; i++ {
		job, err := repo.Enqueue(dbc, &types.IngestJob{Queue: types.SourceWarn, Kind: types.JobKindScheduled})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		if err := gdb.Model(&types.IngestJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":      types.JobStatusFailed,
			"finished_at": old.Add(time.Duration(i) * time.Minute),
		}).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	removed, err := repo.DeleteFinishedBefore(dbc, time.Now().UTC(), 2)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected limit of 2, got %d", removed)
	}
}
