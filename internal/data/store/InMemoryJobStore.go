package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type storedJob struct {
	job     jobModel.Job
	expires time.Time
}

// InMemoryJobStore is the redis fallback. Jobs expire like their redis keys do,
// so a long running process without redis does not keep every job forever.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	ttl  time.Duration
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL)
}

func NewInMemoryJobStore(ttl time.Duration) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]storedJob),
		ttl:  ttl,
	}
}

// SaveJob refreshes the job's expiry and drops whatever has already expired
func (store *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	now := time.Now()
	store.mu.Lock()
	defer store.mu.Unlock()

	swept := 0
	for id, s := range store.jobs {
		if now.After(s.expires) {
			delete(store.jobs, id)
			swept++
		}
	}
	store.jobs[job.Id] = storedJob{job: job, expires: now.Add(store.ttl)}

	inMemLogger.Debug("Saved job to store", "jobId", job.Id, "expired", swept)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s, found := store.jobs[jobId]
	if !found || time.Now().After(s.expires) {
		return jobModel.Job{}, false
	}
	return s.job, true
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobId string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.jobs, jobId)
}

// Len counts stored jobs, expired ones not yet swept included
func (store *InMemoryJobStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.jobs)
}
