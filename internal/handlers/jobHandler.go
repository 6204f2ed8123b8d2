package handlers

import (
	"context"
	"sync"

	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/job"
	"github.com/akolanti/mindsync/internal/rag"
	"github.com/akolanti/mindsync/internal/storage"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

var (
	handlerInstance *DocumentHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
)

type DocumentHandler struct {
	ragService rag.Service
	jobService *job.Service
	files      storage.FileStore
	documents  documentModel.DocumentStore
}

type HandlerConfig struct {
	RagService rag.Service
	JobService *job.Service
	Files      storage.FileStore
	Documents  documentModel.DocumentStore
}

func InitHandlers(cfg HandlerConfig) {
	once.Do(func() {
		handlerInstance = &DocumentHandler{
			ragService: cfg.RagService,
			jobService: cfg.JobService,
			files:      cfg.Files,
			documents:  cfg.Documents,
		}
		logJH.Info("Starting document handlers")
	})
}

// createIngestJob queues a background run for an uploaded document
func createIngestJob(ctx context.Context, doc documentModel.Document) (jobModel.Job, error) {
	log := logJH.WithContext(ctx).With("documentId", doc.Id)
	log.Info("To create new ingestion job")

	newJob, err := handlerInstance.jobService.Enqueue(ctx, jobModel.IngestRequest{
		DocumentId: doc.Id,
		FileName:   doc.FileName,
		UserId:     doc.UserId,
		FileURL:    doc.FileURL,
		MimeType:   doc.MimeType,
	})
	if err != nil {
		log.Error("Could not queue ingestion job", "error", err)
		return jobModel.Job{}, err
	}
	log.Info("Created new job", "jobId", newJob.Id)
	return newJob, nil
}

func getJob(ctx context.Context, id string) (jobModel.Job, []jobModel.Event, bool) {
	if handlerInstance == nil || id == "" {
		return jobModel.Job{}, nil, false
	}
	found, ok := handlerInstance.jobService.JobStore.GetJob(ctx, id)
	if !ok {
		return jobModel.Job{}, nil, false
	}
	events, err := handlerInstance.jobService.Recent(ctx, found.DocumentId)
	if err != nil {
		logJH.WithContext(ctx).Warn("Could not read job events", "jobId", id, "error", err)
	}
	return found, events, true
}
