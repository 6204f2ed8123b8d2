package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/job"
	"github.com/akolanti/mindsync/internal/rag"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	OnProcess      func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError)
}

func (m *MockRagService) ProcessDocument(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnProcess != nil {
		return m.OnProcess(ctx, req)
	}
	return jobModel.IngestSummary{DocumentId: req.DocumentId, ChunksCount: 1}, nil
}

func (m *MockRagService) DocumentStatus(ctx context.Context, id string) (documentModel.Document, int, error) {
	return documentModel.Document{}, 0, nil
}

type MockJobStore struct {
	mu    sync.Mutex
	Saved []jobModel.Job

	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	m.Saved = append(m.Saved, j)
	m.mu.Unlock()
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func (m *MockJobStore) statuses() []jobModel.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []jobModel.JobStatus
	for _, j := range m.Saved {
		out = append(out, j.Status)
	}
	return out
}

func TestExecuteJob(t *testing.T) {
	tests := []struct {
		name          string
		onProcess     func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError)
		expectedFinal jobModel.JobStatus
		expectedStep  jobModel.InternalStatus
		expectedCode  int
	}{
		{
			name:          "Complete",
			expectedFinal: jobModel.JobStatusComplete,
			expectedStep:  jobModel.Complete,
		},
		{
			name: "Failed_With_Status_Write_Error",
			onProcess: func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
				return jobModel.IngestSummary{}, &rag.IngestError{
					Kind:           rag.EmbeddingFailure,
					Message:        "Gagal membuat embedding",
					Cause:          errors.New("quota"),
					StatusWriteErr: errors.New("db offline"),
				}
			},
			expectedFinal: jobModel.JobStatusError,
			expectedStep:  jobModel.Error,
			expectedCode:  502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := &MockJobStore{}
			InitServices(&job.Service{JobStore: jobs}, &MockRagService{OnProcess: tt.onProcess})

			executeJob(jobModel.Job{Id: "job-1", TraceId: "trace-1", DocumentId: "doc-1", Request: jobModel.IngestRequest{DocumentId: "doc-1"}})

			got := jobs.statuses()
			if len(got) != 2 || got[0] != jobModel.JobStatusRunning || got[1] != tt.expectedFinal {
				t.Fatalf("saved statuses = %v, want [RUNNING %s]", got, tt.expectedFinal)
			}
			final := jobs.Saved[1]
			if final.CurrentStep != tt.expectedStep || final.EndTime.IsZero() {
				t.Errorf("final job = %+v", final)
			}
			if tt.expectedCode != 0 {
				if final.Error.Code != tt.expectedCode || final.Error.Kind != "EmbeddingFailure" || final.Error.StatusWriteFailure != "db offline" {
					t.Errorf("job error not recorded: %+v", final.Error)
				}
				if final.Result != nil {
					t.Error("failed job should carry no result")
				}
			} else if final.Result == nil || final.Result.ChunksCount != 1 {
				t.Errorf("result not recorded: %+v", final.Result)
			}
		})
	}
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobs := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobs,
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 2 {
			t.Errorf("Expected the initial worker plus one, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "test-1", Request: jobModel.IngestRequest{DocumentId: "d"}}

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
		if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
			t.Errorf("worker count after stop = %d", count)
		}
	})
}

func TestWorker_IdleTimeoutKeepsMinimum(t *testing.T) {
	oldIdle, oldMin := idleWorkerTimeout, minWorkerCount
	idleWorkerTimeout, minWorkerCount = 20*time.Millisecond, 1
	t.Cleanup(func() { idleWorkerTimeout, minWorkerCount = oldIdle, oldMin })

	atomic.StoreInt64(&currentWorkerCount, 0)
	InitServices(&job.Service{JobChannel: make(chan jobModel.Job)}, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()
	createWorker()
	time.Sleep(200 * time.Millisecond)

	if count := atomic.LoadInt64(&currentWorkerCount); count != 1 {
		t.Errorf("idle workers should retire down to the minimum, count is %d", count)
	}

	close(stopChan)
	wg.Wait()
}
