package rag

import (
	"fmt"
	"net/http"

	"github.com/akolanti/mindsync/internal/domain/jobModel"
)

type ErrorKind string

const (
	MissingParameters      ErrorKind = "MissingParameters"
	DocumentNotFound       ErrorKind = "DocumentNotFound"
	AlreadyProcessing      ErrorKind = "AlreadyProcessing"
	DownloadFailure        ErrorKind = "DownloadFailure"
	ExtractionFailure      ErrorKind = "ExtractionFailure"
	UnsupportedFormat      ErrorKind = "UnsupportedFormat"
	ImageExtractionFailure ErrorKind = "ImageExtractionFailure"
	EmptyDocument          ErrorKind = "EmptyDocument"
	ChunkingFailure        ErrorKind = "ChunkingFailure"
	EmbeddingFailure       ErrorKind = "EmbeddingFailure"
	PersistenceFailure     ErrorKind = "PersistenceFailure"
)

// Parent groups the extraction sub kinds under ExtractionFailure
func (k ErrorKind) Parent() ErrorKind {
	switch k {
	case UnsupportedFormat, ImageExtractionFailure:
		return ExtractionFailure
	default:
		return k
	}
}

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case MissingParameters:
		return http.StatusBadRequest
	case DocumentNotFound:
		return http.StatusNotFound
	case AlreadyProcessing:
		return http.StatusConflict
	case UnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case EmptyDocument:
		return http.StatusUnprocessableEntity
	case DownloadFailure, EmbeddingFailure, ImageExtractionFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IngestError is the single failure type of an ingestion run.
// StatusWriteErr is set when marking the document as error also failed; it never replaces Cause.
type IngestError struct {
	Kind           ErrorKind
	Message        string
	Cause          error
	StatusWriteErr error
}

func newIngestError(kind ErrorKind, message string, cause error) *IngestError {
	return &IngestError{Kind: kind, Message: message, Cause: cause}
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

func (e *IngestError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// Details is the provider or parser message shown to clients next to Message
func (e *IngestError) Details() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Cause.Error()
}

// JobError flattens the error for the job store
func (e *IngestError) JobError() jobModel.JobError {
	je := jobModel.JobError{
		Kind:    string(e.Kind),
		Code:    e.HTTPStatus(),
		Message: e.Message,
		Details: e.Details(),
	}
	if e.StatusWriteErr != nil {
		je.StatusWriteFailure = e.StatusWriteErr.Error()
	}
	return je
}
