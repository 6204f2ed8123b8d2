package api

import "time"

// responses---------------------

type ErrorResponse struct {
	Error   string `json:"error" example:"Gagal membuat embedding"`
	Details string `json:"details,omitempty" example:"rate limit exceeded"`
}

type ProcessDocumentResponse struct {
	Success bool                `json:"success" example:"true"`
	Message string              `json:"message" example:"Dokumen berhasil diproses! 🎉"`
	Data    ProcessDocumentData `json:"data"`
}

type ProcessDocumentData struct {
	DocumentId  string `json:"documentId" example:"9b2f5a44-3c1d-4e55-8f00-6a1b2c3d4e5f"`
	ChunksCount int    `json:"chunksCount" example:"12"`
	TotalWords  int    `json:"totalWords" example:"1830"`
	TotalChars  int    `json:"totalChars" example:"10412"`
	PageCount   *int   `json:"pageCount"`
}

type DocumentStatusResponse struct {
	Success bool               `json:"success" example:"true"`
	Data    DocumentStatusData `json:"data"`
}

type DocumentStatusData struct {
	Id            string    `json:"id"`
	FileName      string    `json:"fileName" example:"notes.pdf"`
	Status        string    `json:"status" example:"completed"`
	UploadedAt    time.Time `json:"uploadedAt"`
	ChunksCount   int       `json:"chunksCount" example:"12"`
	StatusMessage string    `json:"statusMessage"`
}

type UploadDocumentResponse struct {
	Success bool               `json:"success" example:"true"`
	Message string             `json:"message"`
	Data    UploadDocumentData `json:"data"`
}

type UploadDocumentData struct {
	Id         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status" example:"uploaded"`
	UploadedAt time.Time `json:"uploadedAt"`
	JobId      string    `json:"jobId"`
}

type JobResponse struct {
	Id          string               `json:"id"`
	DocumentId  string               `json:"document_id"`
	Status      string               `json:"status" example:"RUNNING"`
	CurrentStep string               `json:"current_step" example:"Embedding"`
	Result      *ProcessDocumentData `json:"result,omitempty"`
	Error       *JobOutgoingError    `json:"error,omitempty"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time,omitempty"`
	Events      []JobEvent           `json:"events"`
}

type JobOutgoingError struct {
	Kind               string `json:"kind" example:"EmbeddingFailure"`
	Code               int    `json:"code" example:"502"`
	Message            string `json:"message" example:"Gagal membuat embedding"`
	Details            string `json:"details,omitempty"`
	StatusWriteFailure string `json:"status_write_failure,omitempty"`
}

type JobEvent struct {
	Stage   string    `json:"stage" example:"Download"`
	Ok      bool      `json:"ok"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// requests---------------------

type ProcessDocumentRequest struct {
	DocumentId     string `json:"documentId" validate:"required"`
	FileName       string `json:"fileName" validate:"required"`
	WhatsappNumber string `json:"whatsappNumber" validate:"required"`
	FileURL        string `json:"fileUrl" validate:"required"`
	MimeType       string `json:"mimeType,omitempty"`
}
