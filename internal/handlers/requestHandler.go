package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/akolanti/mindsync/internal/adapter"
	"github.com/akolanti/mindsync/internal/adapter/utils"
	"github.com/akolanti/mindsync/internal/api"
	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

var allowedUploadTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"text/markdown",
	"text/csv",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"image/png",
	"image/jpeg",
	"image/jpg",
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ProcessDocumentHandler godoc
// @Summary      Ingest an uploaded document
// @Description  Downloads the file, extracts its text, chunks and embeds it, then stores the vectors. Runs synchronously.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.ProcessDocumentRequest   true  "Document to ingest"
// @Success      200      {object}  api.ProcessDocumentResponse  "Document ingested"
// @Failure      400      {object}  api.ErrorResponse            "Missing parameters"
// @Failure      404      {object}  api.ErrorResponse            "Unknown document"
// @Failure      409      {object}  api.ErrorResponse            "Document already processing or processed"
// @Failure      415      {object}  api.ErrorResponse            "Unsupported format"
// @Failure      422      {object}  api.ErrorResponse            "Empty document"
// @Failure      502      {object}  api.ErrorResponse            "Storage or model provider failure"
// @Failure      500      {object}  api.ErrorResponse            "Internal failure"
// @Router       /documents/process [post]
func ProcessDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the process handler reader", "error", err)
		}
	}(r.Body)

	var requestData api.ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.WithContext(r.Context()).Warn("Bad process request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Parameter tidak lengkap", err.Error())
		return
	}

	// a dropped client must not cut a claimed run short, the service applies its own deadline
	ctx := context.WithoutCancel(r.Context())
	summary, ierr := handlerInstance.ragService.ProcessDocument(ctx, adapter.ToIngestRequest(requestData))
	if ierr != nil {
		writeJsonResponse(w, ierr.HTTPStatus(), adapter.ToErrorResponse(ierr))
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToProcessResponse(summary))
}

// DocumentStatusHandler godoc
// @Summary      Get document status
// @Description  Returns the ingestion status of a document for polling UIs. chunksCount is only counted once the document is completed.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentStatusResponse
// @Failure      404  {object}  api.ErrorResponse  "Unknown document"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /documents/status/{id} [get]
func DocumentStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "Document ID tidak ditemukan", "")
		return
	}

	doc, count, err := handlerInstance.ragService.DocumentStatus(r.Context(), id)
	if errors.Is(err, documentModel.ErrNotFound) {
		WriteErrorResponse(w, http.StatusNotFound, "Dokumen tidak ditemukan", "")
		return
	}
	if err != nil {
		logRH.WithContext(r.Context()).Error("Status check failed", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Gagal cek status dokumen", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatusResponse(doc, count))
}

// UploadDocumentHandler godoc
// @Summary      Upload a document
// @Description  Stores the file at {whatsapp_number}/{file name}, records it as uploaded and queues a background ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file             formData  file    true  "PDF, Word, spreadsheet, text, CSV, markdown or PNG/JPEG file, 10MB max"
// @Param        whatsapp_number  formData  string  true  "Owner WhatsApp number"
// @Success      200  {object}  api.UploadDocumentResponse
// @Failure      400  {object}  api.ErrorResponse  "Missing fields, file too large or unsupported type"
// @Failure      500  {object}  api.ErrorResponse  "Storage or database error"
// @Router       /documents/upload [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	ctx := r.Context()
	log := logRH.WithContext(ctx)

	//leave room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File terlalu besar. Maksimal 10MB ya!", err.Error())
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File tidak ditemukan", "")
		return
	}
	defer fileReader.Close()

	whatsappNumber := strings.TrimSpace(r.FormValue("whatsapp_number"))
	if whatsappNumber == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "WhatsApp number tidak ditemukan", "")
		return
	}
	if fileMetadata.Size > config.MaxUploadSize {
		WriteErrorResponse(w, http.StatusBadRequest, "File terlalu besar. Maksimal 10MB ya!", "")
		return
	}

	contentType := uploadContentType(fileMetadata.Header.Get("Content-Type"))
	if !slices.Contains(allowedUploadTypes, contentType) {
		WriteErrorResponse(w, http.StatusBadRequest, "Format file tidak didukung", contentType)
		return
	}

	data, err := io.ReadAll(fileReader)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File tidak bisa dibaca", err.Error())
		return
	}

	fileURL, err := handlerInstance.files.Upload(ctx, data, fileMetadata.Filename, whatsappNumber, contentType)
	if err != nil {
		log.Error("Upload to storage failed", "fileName", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Gagal upload file ke storage", err.Error())
		return
	}

	doc, err := handlerInstance.documents.InsertDocument(ctx, documentModel.Document{
		UserId:   whatsappNumber,
		FileName: fileMetadata.Filename,
		FileURL:  fileURL,
		MimeType: contentType,
		Status:   documentModel.StatusUploaded,
	})
	if err != nil {
		log.Error("Saving document record failed, removing stored file", "fileName", fileMetadata.Filename, "error", err)
		if delErr := handlerInstance.files.Delete(context.WithoutCancel(ctx), fileURL); delErr != nil {
			log.Error("Rollback of stored file failed", "url", fileURL, "error", delErr)
		}
		WriteErrorResponse(w, http.StatusInternalServerError, "Gagal menyimpan metadata dokumen", err.Error())
		return
	}

	// the upload already succeeded, a queueing failure leaves the document in uploaded for a manual process call
	newJob, err := createIngestJob(ctx, doc)
	if err != nil {
		log.Warn("Document stored without a background job", "documentId", doc.Id, "error", err)
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(doc, newJob.Id))
}

// GetJobHandler godoc
// @Summary      Get ingestion job
// @Description  Returns a background ingestion job and the latest stage events of its document.
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /jobs/{id} [get]
func GetJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	id := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Job Request", "URL path", r.URL.Path)

	found, events, ok := getJob(r.Context(), id)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, "Job tidak ditemukan", id)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToJobResponse(found, events))
}

func uploadContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return strings.ToLower(mediaType)
}
