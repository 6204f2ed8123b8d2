package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/redisStore"
	"github.com/akolanti/mindsync/internal/data/store"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedisStore(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newMiniRedisStore(t)
	jobStore := store.NewRedisJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:         jobID,
		DocumentId: "doc-1",
		Status:     jobModel.JobStatusRunning,
		Request: jobModel.IngestRequest{
			DocumentId: "doc-1",
			FileName:   "notes.txt",
			UserId:     "628123",
			FileURL:    "https://files.local/mindsync_storage/628123/notes.txt",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.Request.FileURL != testJob.Request.FileURL {
			t.Errorf("Data mismatch! Got %s, want %s", retrievedJob.Request.FileURL, testJob.Request.FileURL)
		}
		if ttl := mr.TTL("ingest:job:" + jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("expected ttl %v, got %v", config.RedisJobStoreTTL, ttl)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt payload is treated as missing", func(t *testing.T) {
		if err := mr.Set("ingest:job:broken", "{not json"); err != nil {
			t.Fatal(err)
		}
		if _, found := jobStore.GetJob(ctx, "broken"); found {
			t.Error("expected found=false for corrupt payload")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("ingest:job:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, internalStore := newMiniRedisStore(t)
	jobStore := store.NewRedisJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("expected job after concurrent writes")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	s := store.InitInMemoryJobStore()
	ctx := context.Background()

	_ = s.SaveJob(ctx, jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued})
	got, found := s.GetJob(ctx, "a")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("unexpected job %+v found=%v", got, found)
	}
	s.DeleteJob(ctx, "a")
	if _, found = s.GetJob(ctx, "a"); found {
		t.Error("job should be gone")
	}
}

func TestInMemoryJobStore_Expires(t *testing.T) {
	s := store.NewInMemoryJobStore(30 * time.Millisecond)
	ctx := context.Background()

	_ = s.SaveJob(ctx, jobModel.Job{Id: "old"})
	time.Sleep(60 * time.Millisecond)

	if _, found := s.GetJob(ctx, "old"); found {
		t.Error("expired job should not be returned")
	}

	_ = s.SaveJob(ctx, jobModel.Job{Id: "new"})
	if s.Len() != 1 {
		t.Errorf("expected the expired job to be swept on save, %d jobs stored", s.Len())
	}
	if _, found := s.GetJob(ctx, "new"); !found {
		t.Error("fresh job should be returned")
	}
}
