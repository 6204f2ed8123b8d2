package adapter

import (
	"github.com/akolanti/mindsync/internal/api"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/rag"
)

const (
	ProcessSuccessMessage = "Dokumen berhasil diproses! 🎉"
	UploadSuccessMessage  = "File berhasil diupload! Lagi diproses nih, tunggu sebentar ya 🎉"
)

// StatusMessage is the fixed text a polling UI shows for each status
func StatusMessage(status documentModel.Status) string {
	switch status.Normalize() {
	case documentModel.StatusUploaded:
		return "Dokumen berhasil diupload, menunggu diproses..."
	case documentModel.StatusProcessing:
		return "Lagi diproses nih, tunggu sebentar ya! 🔄"
	case documentModel.StatusCompleted:
		return "Dokumen sudah siap! Bisa ditanya lewat WhatsApp 🎉"
	case documentModel.StatusError:
		return "Oops! Ada yang error. Coba upload lagi ya 😢"
	default:
		return "Status tidak diketahui"
	}
}

func ToIngestRequest(req api.ProcessDocumentRequest) jobModel.IngestRequest {
	return jobModel.IngestRequest{
		DocumentId: req.DocumentId,
		FileName:   req.FileName,
		UserId:     req.WhatsappNumber,
		FileURL:    req.FileURL,
		MimeType:   req.MimeType,
	}
}

func ToProcessData(summary jobModel.IngestSummary) api.ProcessDocumentData {
	return api.ProcessDocumentData{
		DocumentId:  summary.DocumentId,
		ChunksCount: summary.ChunksCount,
		TotalWords:  summary.TotalWords,
		TotalChars:  summary.TotalChars,
		PageCount:   summary.PageCount,
	}
}

func ToProcessResponse(summary jobModel.IngestSummary) api.ProcessDocumentResponse {
	return api.ProcessDocumentResponse{
		Success: true,
		Message: ProcessSuccessMessage,
		Data:    ToProcessData(summary),
	}
}

func ToErrorResponse(ierr *rag.IngestError) api.ErrorResponse {
	return api.ErrorResponse{
		Error:   ierr.Message,
		Details: ierr.Details(),
	}
}

func ToStatusResponse(doc documentModel.Document, chunksCount int) api.DocumentStatusResponse {
	return api.DocumentStatusResponse{
		Success: true,
		Data: api.DocumentStatusData{
			Id:            doc.Id,
			FileName:      doc.FileName,
			Status:        string(doc.Status.Normalize()),
			UploadedAt:    doc.UploadedAt,
			ChunksCount:   chunksCount,
			StatusMessage: StatusMessage(doc.Status),
		},
	}
}

func ToUploadResponse(doc documentModel.Document, jobId string) api.UploadDocumentResponse {
	return api.UploadDocumentResponse{
		Success: true,
		Message: UploadSuccessMessage,
		Data: api.UploadDocumentData{
			Id:         doc.Id,
			FileName:   doc.FileName,
			Status:     string(doc.Status),
			UploadedAt: doc.UploadedAt,
			JobId:      jobId,
		},
	}
}

func BadRequest(message string, details string) api.ErrorResponse {
	return api.ErrorResponse{Error: message, Details: details}
}
