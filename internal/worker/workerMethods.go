package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/metrics"
)

// executeJob runs one background ingestion and keeps the job record in step with it
func executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	log := logger.WithContext(ctx).With("jobId", job.Id, "documentId", job.DocumentId)
	log.Debug("Processing job")

	job.CurrentStep = jobModel.ClaimStep
	job = saveJobState(ctx, job, jobModel.JobStatusRunning)

	summary, ierr := _ragService.ProcessDocument(ctx, job.Request)
	job.EndTime = time.Now()

	if ierr != nil {
		log.Warn("Ingestion job failed", "kind", ierr.Kind, "error", ierr)
		job.Error = ierr.JobError()
		job.CurrentStep = jobModel.Error
		job = saveJobState(ctx, job, jobModel.JobStatusError)
		return
	}

	job.Result = &summary
	job.CurrentStep = jobModel.Complete
	job = saveJobState(ctx, job, jobModel.JobStatusComplete)
	log.Info("Ingestion job complete", "chunks", summary.ChunksCount)
}

// removeWorker runs after the caller has taken the worker off currentWorkerCount
func removeWorker(reason string) {
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	workerWaitGroup.Done()
}

func saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) jobModel.Job {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.WithContext(ctx).Error("Failed to update job state", "jobId", job.Id, "error", err)
	}
	return job
}
