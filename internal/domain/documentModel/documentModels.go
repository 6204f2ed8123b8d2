package documentModel

import (
	"context"
	"errors"
	"time"
)

type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"

	//older rows written before the status rename
	legacyStatusProcessed Status = "processed"
	legacyStatusFailed    Status = "failed"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrAlreadyClaimed = errors.New("document is not in uploaded state")
)

// Normalize maps legacy status values onto the current set
func (s Status) Normalize() Status {
	switch s {
	case legacyStatusProcessed:
		return StatusCompleted
	case legacyStatusFailed:
		return StatusError
	default:
		return s
	}
}

type Document struct {
	Id         string    `json:"id"`
	UserId     string    `json:"user_whatsapp_number"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	MimeType   string    `json:"mime_type"`
	Status     Status    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VectorRow is one persisted chunk with its embedding
type VectorRow struct {
	Id         string         `json:"id"`
	DocumentId string         `json:"document_id"`
	UserId     string         `json:"user_whatsapp_number"`
	Content    string         `json:"content"`
	Embedding  []float32      `json:"-"`
	Metadata   VectorMetadata `json:"metadata"`
}

type VectorMetadata struct {
	DocumentId       string           `json:"document_id"`
	FileName         string           `json:"file_name"`
	ChunkIndex       int              `json:"chunk_index"`
	StartChar        int              `json:"start_char"`
	EndChar          int              `json:"end_char"`
	WordCount        int              `json:"word_count"`
	TotalChunks      int              `json:"total_chunks"`
	DocumentMetadata DocumentAggStats `json:"document_metadata"`
}

type DocumentAggStats struct {
	PageCount      *int `json:"page_count"`
	TotalWordCount int  `json:"total_word_count"`
	TotalCharCount int  `json:"total_char_count"`
}

type DocumentStore interface {
	InsertDocument(ctx context.Context, doc Document) (Document, error)
	GetDocument(ctx context.Context, id string) (Document, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// ClaimForProcessing moves uploaded -> processing atomically.
	// It returns ErrNotFound or ErrAlreadyClaimed when the swap does not happen.
	ClaimForProcessing(ctx context.Context, id string) error
	DeleteDocument(ctx context.Context, id string) error
}

type VectorStore interface {
	InsertRows(ctx context.Context, rows []VectorRow) error
	CountByDocument(ctx context.Context, documentId string) (int, error)
}
