package rag

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/metrics"
	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/akolanti/mindsync/internal/rag/ingest"
	"github.com/akolanti/mindsync/internal/storage"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// Service is what the handlers, the mcp tools and the workers call.
// The stores and providers behind it stay private to this package.
type Service interface {
	ProcessDocument(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *IngestError)
	DocumentStatus(ctx context.Context, documentId string) (documentModel.Document, int, error)
}

// Extractor is satisfied by *ingest.Extractor
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (commonModels.ProcessedDocument, error)
}

type ChunkFunc func(text string, size, overlap int) ([]commonModels.Chunk, error)

type Dependencies struct {
	Documents documentModel.DocumentStore
	Vectors   documentModel.VectorStore
	Files     storage.FileStore
	Extractor Extractor
	Embedder  embedding.Embedder
	Events    jobModel.EventStore // optional

	Chunker      ChunkFunc // defaults to ingest.SplitText
	ChunkSize    int
	ChunkOverlap int
	Timeout      time.Duration
}

type service struct {
	documents documentModel.DocumentStore
	vectors   documentModel.VectorStore
	files     storage.FileStore
	extractor Extractor
	embedder  embedding.Embedder
	events    jobModel.EventStore

	chunk        ChunkFunc
	chunkSize    int
	chunkOverlap int
	timeout      time.Duration
	logger       *logger_i.Logger
}

// NewService constructor
func NewService(d Dependencies) Service {
	s := &service{
		documents:    d.Documents,
		vectors:      d.Vectors,
		files:        d.Files,
		extractor:    d.Extractor,
		embedder:     d.Embedder,
		events:       d.Events,
		chunk:        d.Chunker,
		chunkSize:    d.ChunkSize,
		chunkOverlap: d.ChunkOverlap,
		timeout:      d.Timeout,
		logger:       logger_i.NewLogger("RAG Service"),
	}
	if s.chunk == nil {
		s.chunk = ingest.SplitText
	}
	if s.chunkSize == 0 {
		s.chunkSize = config.DefaultChunkSize
		s.chunkOverlap = config.DefaultChunkOverlap
	}
	if s.timeout == 0 {
		s.timeout = config.IngestionTimeout
	}
	return s
}

// ProcessDocument runs download, extract, chunk, embed and persist for one uploaded document.
// Every failure after the claim leaves the document in the error status, best effort.
func (s *service) ProcessDocument(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *IngestError) {
	start := time.Now()
	summary, ierr := s.process(ctx, req)

	kind := "ok"
	if ierr != nil {
		kind = string(ierr.Kind)
	}
	metrics.CountIngestionRun(kind)
	metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start))
	return summary, ierr
}

func (s *service) process(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *IngestError) {
	if ierr := validate(req); ierr != nil {
		s.logger.WithContext(ctx).Warn("Rejected ingestion request", "error", ierr)
		return jobModel.IngestSummary{}, ierr
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	log := s.logger.WithContext(ctx).With("documentId", req.DocumentId, "fileName", req.FileName)

	if err := s.executeClaimStep(ctx, log, req.DocumentId); err != nil {
		if errors.Is(err, documentModel.ErrNotFound) {
			return jobModel.IngestSummary{}, newIngestError(DocumentNotFound, "Dokumen tidak ditemukan", err)
		}
		if errors.Is(err, documentModel.ErrAlreadyClaimed) {
			return jobModel.IngestSummary{}, newIngestError(AlreadyProcessing, "Dokumen sedang atau sudah diproses", err)
		}
		// the claim never happened so there is nothing to roll back to error
		return jobModel.IngestSummary{}, newIngestError(PersistenceFailure, "Gagal memperbarui status dokumen", err)
	}

	file, err := s.executeDownloadStep(ctx, log, req)
	if err != nil {
		return s.fail(ctx, log, req, newIngestError(DownloadFailure, "Gagal download file dari storage", err))
	}

	mimeType := resolveMimeType(req.MimeType, file.ContentType, file.Data)
	doc, err := s.executeExtractStep(ctx, log, req, file.Data, mimeType)
	if err != nil {
		return s.fail(ctx, log, req, extractionError(err))
	}
	if strings.TrimSpace(doc.Text) == "" {
		return s.fail(ctx, log, req, newIngestError(EmptyDocument, "Dokumen kosong atau tidak bisa diproses", nil))
	}

	chunks, err := s.executeChunkStep(ctx, log, req.DocumentId, doc.Text)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyDocument) {
			return s.fail(ctx, log, req, newIngestError(EmptyDocument, "Dokumen kosong atau tidak bisa diproses", err))
		}
		return s.fail(ctx, log, req, newIngestError(ChunkingFailure, "Gagal membagi dokumen menjadi chunks", err))
	}
	if len(chunks) == 0 {
		return s.fail(ctx, log, req, newIngestError(ChunkingFailure, "Gagal membagi dokumen menjadi chunks", nil))
	}

	vectors, err := s.executeEmbeddingStep(ctx, log, req.DocumentId, chunks)
	if err != nil {
		return s.fail(ctx, log, req, newIngestError(EmbeddingFailure, "Gagal membuat embedding", err))
	}

	rows := buildRows(req, doc, chunks, vectors)
	if err := s.executePersistStep(ctx, log, req.DocumentId, rows); err != nil {
		return s.fail(ctx, log, req, newIngestError(PersistenceFailure, "Gagal menyimpan chunks ke database", err))
	}
	metrics.AddIngestedChunks(len(rows))

	if err := s.executeCompleteStep(ctx, log, req.DocumentId); err != nil {
		// rows are stored but the document is stuck in processing, surface it
		return s.fail(ctx, log, req, newIngestError(PersistenceFailure, "Gagal memperbarui status dokumen", err))
	}

	log.Info("Document ingested", "chunks", len(chunks), "words", doc.Metadata.WordCount)
	return jobModel.IngestSummary{
		DocumentId:  req.DocumentId,
		ChunksCount: len(chunks),
		TotalWords:  doc.Metadata.WordCount,
		TotalChars:  doc.Metadata.CharCount,
		PageCount:   doc.Metadata.PageCount,
	}, nil
}

// DocumentStatus reads the record and, for completed documents, its chunk count
func (s *service) DocumentStatus(ctx context.Context, documentId string) (documentModel.Document, int, error) {
	var doc documentModel.Document
	var count int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.documents.GetDocument(gctx, documentId)
		doc = d
		return err
	})
	g.Go(func() error {
		n, err := s.vectors.CountByDocument(gctx, documentId)
		count = n
		return err
	})
	if err := g.Wait(); err != nil {
		return documentModel.Document{}, 0, err
	}

	doc.Status = doc.Status.Normalize()
	if doc.Status != documentModel.StatusCompleted {
		count = 0
	}
	return doc, count, nil
}

func validate(req jobModel.IngestRequest) *IngestError {
	var missing []string
	for name, v := range map[string]string{
		"documentId":     req.DocumentId,
		"fileName":       req.FileName,
		"whatsappNumber": req.UserId,
		"fileUrl":        req.FileURL,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return newIngestError(MissingParameters, "Parameter tidak lengkap", errors.New("missing: "+strings.Join(missing, ", ")))
}

func extractionError(err error) *IngestError {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return newIngestError(UnsupportedFormat, "Format file tidak didukung", err)
	case errors.Is(err, ingest.ErrImageExtraction):
		return newIngestError(ImageExtractionFailure, "Gagal extract text dari gambar", err)
	default:
		return newIngestError(ExtractionFailure, "Gagal extract text dari dokumen", err)
	}
}

func buildRows(req jobModel.IngestRequest, doc commonModels.ProcessedDocument, chunks []commonModels.Chunk, vectors [][]float32) []documentModel.VectorRow {
	rows := make([]documentModel.VectorRow, len(chunks))
	for i, c := range chunks {
		rows[i] = documentModel.VectorRow{
			DocumentId: req.DocumentId,
			UserId:     req.UserId,
			Content:    c.Content,
			Embedding:  vectors[i],
			Metadata: documentModel.VectorMetadata{
				DocumentId:  req.DocumentId,
				FileName:    req.FileName,
				ChunkIndex:  c.Index,
				StartChar:   c.Metadata.StartChar,
				EndChar:     c.Metadata.EndChar,
				WordCount:   c.Metadata.WordCount,
				TotalChunks: len(chunks),
				DocumentMetadata: documentModel.DocumentAggStats{
					PageCount:      doc.Metadata.PageCount,
					TotalWordCount: doc.Metadata.WordCount,
					TotalCharCount: doc.Metadata.CharCount,
				},
			},
		}
	}
	return rows
}
