package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit    InternalStatus = "IngestInit"
	ClaimStep     InternalStatus = "Claim"
	DownloadStep  InternalStatus = "Download"
	ExtractStep   InternalStatus = "Extract"
	ChunkStep     InternalStatus = "Chunk"
	EmbeddingStep InternalStatus = "Embedding"
	PersistStep   InternalStatus = "Persist"
	StatusStep    InternalStatus = "StatusUpdate"
	Error         InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// IngestRequest is the input of one ingestion run
type IngestRequest struct {
	DocumentId string `json:"documentId"`
	FileName   string `json:"fileName"`
	UserId     string `json:"whatsappNumber"`
	FileURL    string `json:"fileUrl"`
	MimeType   string `json:"mimeType,omitempty"`
}

type IngestSummary struct {
	DocumentId  string `json:"documentId"`
	ChunksCount int    `json:"chunksCount"`
	TotalWords  int    `json:"totalWords"`
	TotalChars  int    `json:"totalChars"`
	PageCount   *int   `json:"pageCount,omitempty"`
}

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	DocumentId  string         `json:"document_id"`
	Request     IngestRequest  `json:"request"`
	Result      *IngestSummary `json:"result,omitempty"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Kind               string `json:"kind,omitempty"`
	Code               int    `json:"code"`
	Message            string `json:"message"`
	Details            string `json:"details,omitempty"`
	StatusWriteFailure string `json:"status_write_failure,omitempty"`
}

// Event is one stage transition of an ingestion run
type Event struct {
	DocumentId string         `json:"document_id"`
	Stage      InternalStatus `json:"stage"`
	Ok         bool           `json:"ok"`
	Message    string         `json:"message,omitempty"`
	At         time.Time      `json:"at"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type EventStore interface {
	Append(ctx context.Context, event Event) error
	Recent(ctx context.Context, documentId string) ([]Event, error)
}
