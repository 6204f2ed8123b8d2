package rag

import (
	"context"
	"mime"
	"strings"
	"time"

	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/metrics"
	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/akolanti/mindsync/internal/storage"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/gabriel-vasile/mimetype"
)

const statusWriteTimeout = 5 * time.Second

func logOutput(step jobModel.InternalStatus, log *logger_i.Logger) {
	log.Debug("ProcessDocument", "Current Step", step)
}

// track times a step and records its outcome in the event log
func (s *service) track(ctx context.Context, log *logger_i.Logger, documentId string, step jobModel.InternalStatus, label string) func(error) {
	logOutput(step, log)
	start := time.Now()
	return func(err error) {
		metrics.CaptureExecutionMetrics(label, time.Since(start))
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		s.recordEvent(ctx, documentId, step, err == nil, msg)
	}
}

func (s *service) recordEvent(ctx context.Context, documentId string, step jobModel.InternalStatus, ok bool, msg string) {
	if s.events == nil {
		return
	}
	err := s.events.Append(context.WithoutCancel(ctx), jobModel.Event{
		DocumentId: documentId,
		Stage:      step,
		Ok:         ok,
		Message:    msg,
		At:         time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithContext(ctx).Warn("Could not record ingestion event", "documentId", documentId, "error", err)
	}
}

func (s *service) executeClaimStep(ctx context.Context, log *logger_i.Logger, documentId string) (err error) {
	done := s.track(ctx, log, documentId, jobModel.ClaimStep, "claim")
	defer func() { done(err) }()

	return s.documents.ClaimForProcessing(ctx, documentId)
}

func (s *service) executeDownloadStep(ctx context.Context, log *logger_i.Logger, req jobModel.IngestRequest) (file storage.DownloadedFile, err error) {
	done := s.track(ctx, log, req.DocumentId, jobModel.DownloadStep, "download")
	defer func() { done(err) }()

	return s.files.Download(ctx, req.FileURL)
}

func (s *service) executeExtractStep(ctx context.Context, log *logger_i.Logger, req jobModel.IngestRequest, data []byte, mimeType string) (doc commonModels.ProcessedDocument, err error) {
	done := s.track(ctx, log, req.DocumentId, jobModel.ExtractStep, "extract")
	defer func() { done(err) }()

	return s.extractor.Extract(ctx, data, mimeType, req.FileName)
}

func (s *service) executeChunkStep(ctx context.Context, log *logger_i.Logger, documentId string, text string) (chunks []commonModels.Chunk, err error) {
	done := s.track(ctx, log, documentId, jobModel.ChunkStep, "chunk")
	defer func() { done(err) }()

	return s.chunk(text, s.chunkSize, s.chunkOverlap)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, documentId string, chunks []commonModels.Chunk) (vectors [][]float32, err error) {
	done := s.track(ctx, log, documentId, jobModel.EmbeddingStep, "embedding")
	defer func() { done(err) }()

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err = s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err = embedding.CheckBatch(len(texts), vectors, 0); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (s *service) executePersistStep(ctx context.Context, log *logger_i.Logger, documentId string, rows []documentModel.VectorRow) (err error) {
	done := s.track(ctx, log, documentId, jobModel.PersistStep, "persist")
	defer func() { done(err) }()

	return s.vectors.InsertRows(ctx, rows)
}

func (s *service) executeCompleteStep(ctx context.Context, log *logger_i.Logger, documentId string) (err error) {
	done := s.track(ctx, log, documentId, jobModel.StatusStep, "status_update")
	defer func() { done(err) }()

	return s.documents.UpdateStatus(ctx, documentId, documentModel.StatusCompleted)
}

// fail marks the document as error. A failed write is kept on the error, it does not change the outcome.
func (s *service) fail(ctx context.Context, log *logger_i.Logger, req jobModel.IngestRequest, ierr *IngestError) (jobModel.IngestSummary, *IngestError) {
	log.Error("Ingestion failed", "kind", ierr.Kind, "error", ierr.Cause)

	// the run deadline may be what failed us, the status write gets its own
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if err := s.documents.UpdateStatus(writeCtx, req.DocumentId, documentModel.StatusError); err != nil {
		ierr.StatusWriteErr = err
		metrics.CountStatusWriteFailure()
		log.Error("Could not mark document as error", "error", err)
		s.recordEvent(ctx, req.DocumentId, jobModel.Error, false, "status write failed: "+err.Error())
		return jobModel.IngestSummary{}, ierr
	}
	s.recordEvent(ctx, req.DocumentId, jobModel.Error, true, string(ierr.Kind))
	return jobModel.IngestSummary{}, ierr
}

// resolveMimeType prefers the declared type, then the storage content type, then sniffs the bytes.
// An empty result leaves dispatch to the file name.
func resolveMimeType(declared, downloaded string, data []byte) string {
	for _, candidate := range []string{declared, downloaded} {
		if m := baseMimeType(candidate); m != "" {
			return m
		}
	}
	return baseMimeType(mimetype.Detect(data).String())
}

func baseMimeType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(v); err == nil {
		v = parsed
	}
	v = strings.ToLower(v)
	if v == "application/octet-stream" || v == "binary/octet-stream" {
		return ""
	}
	return v
}
