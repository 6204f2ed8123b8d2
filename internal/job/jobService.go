package job

import (
	"context"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/metrics"
	"github.com/google/uuid"
)

type Service struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	EventStore        jobModel.EventStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	EventStore        jobModel.EventStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		EventStore:        cfg.EventStore,
	}
}

// Enqueue stores a QUEUED job for req and hands it to the worker pool.
// The send blocks while the buffer is full, so callers are throttled by the pool.
func (s *Service) Enqueue(ctx context.Context, req jobModel.IngestRequest) (jobModel.Job, error) {
	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	newJob := jobModel.Job{
		Id:          uuid.NewString(),
		TraceId:     traceId,
		DocumentId:  req.DocumentId,
		Request:     req,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
	}

	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		return jobModel.Job{}, err
	}

	select {
	case s.JobChannel <- newJob:
	case <-ctx.Done():
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), newJob.Id)
		return jobModel.Job{}, ctx.Err()
	}
	metrics.IncrementJobsInQueue()

	// ingestion is slow external io, ask for a worker per job and let the dispatcher cap the pool
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
	default:
	}
	return newJob, nil
}

// Recent returns the last events of a document, or nil when no event store is wired
func (s *Service) Recent(ctx context.Context, documentId string) ([]jobModel.Event, error) {
	if s.EventStore == nil {
		return nil, nil
	}
	return s.EventStore.Recent(ctx, documentId)
}
