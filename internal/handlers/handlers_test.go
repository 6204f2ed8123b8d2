package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/mindsync/internal/api"
	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/store"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/job"
	"github.com/akolanti/mindsync/internal/rag"
	"github.com/akolanti/mindsync/internal/storage"
	"github.com/go-chi/chi/v5"
)

type mockRagService struct {
	OnProcess func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError)
	OnStatus  func(ctx context.Context, id string) (documentModel.Document, int, error)
}

func (m *mockRagService) ProcessDocument(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
	return m.OnProcess(ctx, req)
}

func (m *mockRagService) DocumentStatus(ctx context.Context, id string) (documentModel.Document, int, error) {
	return m.OnStatus(ctx, id)
}

type mockFileStore struct {
	uploadedFolder string
	deleted        []string
	OnUpload       func() (string, error)
}

func (m *mockFileStore) Upload(ctx context.Context, data []byte, name, folder, contentType string) (string, error) {
	m.uploadedFolder = folder
	if m.OnUpload != nil {
		return m.OnUpload()
	}
	return "https://files.local/storage/v1/object/public/mindsync_storage/" + folder + "/" + name, nil
}

func (m *mockFileStore) Download(ctx context.Context, url string) (storage.DownloadedFile, error) {
	return storage.DownloadedFile{}, nil
}

func (m *mockFileStore) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

type mockDocumentStore struct {
	inserted documentModel.Document
	OnInsert func(doc documentModel.Document) (documentModel.Document, error)
}

func (m *mockDocumentStore) InsertDocument(ctx context.Context, doc documentModel.Document) (documentModel.Document, error) {
	m.inserted = doc
	if m.OnInsert != nil {
		return m.OnInsert(doc)
	}
	doc.Id = "doc-new"
	doc.UploadedAt = time.Unix(100, 0).UTC()
	return doc, nil
}

func (m *mockDocumentStore) GetDocument(ctx context.Context, id string) (documentModel.Document, error) {
	return documentModel.Document{}, documentModel.ErrNotFound
}

func (m *mockDocumentStore) UpdateStatus(ctx context.Context, id string, status documentModel.Status) error {
	return nil
}

func (m *mockDocumentStore) ClaimForProcessing(ctx context.Context, id string) error {
	return nil
}

func (m *mockDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

type testDeps struct {
	rag    *mockRagService
	files  *mockFileStore
	docs   *mockDocumentStore
	jobs   *job.Service
	events *store.InMemoryEventStore
}

func setupHandlers(t *testing.T) (*testDeps, http.Handler) {
	t.Helper()
	d := &testDeps{
		rag:    &mockRagService{},
		files:  &mockFileStore{},
		docs:   &mockDocumentStore{},
		events: store.InitInMemoryEventStore(),
	}
	d.jobs = job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 4),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
		EventStore:        d.events,
	})
	handlerInstance = &DocumentHandler{
		ragService: d.rag,
		jobService: d.jobs,
		files:      d.files,
		documents:  d.docs,
	}
	t.Cleanup(func() { handlerInstance = nil })

	r := chi.NewRouter()
	r.Post("/documents/process", ProcessDocumentHandler)
	r.Get("/documents/status/{id}", DocumentStatusHandler)
	r.Post("/documents/upload", UploadDocumentHandler)
	r.Get("/jobs/{id}", GetJobHandler)
	return d, r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(context.WithValue(req.Context(), config.TRACE_ID_KEY, "trace-test"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestProcessDocumentHandler(t *testing.T) {
	pages := 4
	tests := []struct {
		name         string
		body         string
		onProcess    func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success",
			body: `{"documentId":"d1","fileName":"a.pdf","whatsappNumber":"62","fileUrl":"https://x/a.pdf"}`,
			onProcess: func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
				if req.UserId != "62" || req.FileURL != "https://x/a.pdf" {
					return jobModel.IngestSummary{}, &rag.IngestError{Kind: rag.MissingParameters, Message: "bad mapping"}
				}
				return jobModel.IngestSummary{DocumentId: "d1", ChunksCount: 3, TotalWords: 40, TotalChars: 200, PageCount: &pages}, nil
			},
			expectedCode: http.StatusOK,
			expectedBody: `"chunksCount":3`,
		},
		{
			name: "Provider_Failure",
			body: `{"documentId":"d1","fileName":"a.pdf","whatsappNumber":"62","fileUrl":"https://x/a.pdf"}`,
			onProcess: func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
				return jobModel.IngestSummary{}, &rag.IngestError{Kind: rag.EmbeddingFailure, Message: "Gagal membuat embedding", Cause: errors.New("quota")}
			},
			expectedCode: http.StatusBadGateway,
			expectedBody: `"details":"quota"`,
		},
		{
			name: "Unsupported_Format",
			body: `{"documentId":"d1","fileName":"a.zip","whatsappNumber":"62","fileUrl":"https://x/a.zip"}`,
			onProcess: func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
				return jobModel.IngestSummary{}, &rag.IngestError{Kind: rag.UnsupportedFormat, Message: "Format file tidak didukung"}
			},
			expectedCode: http.StatusUnsupportedMediaType,
			expectedBody: `"error":"Format file tidak didukung"`,
		},
		{
			name:         "Malformed_Body",
			body:         `{"documentId":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `"error":"Parameter tidak lengkap"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, h := setupHandlers(t)
			d.rag.OnProcess = tt.onProcess

			rr := serve(h, httptest.NewRequest(http.MethodPost, "/documents/process", strings.NewReader(tt.body)))
			if rr.Code != tt.expectedCode {
				t.Errorf("status got %d, want %d (%s)", rr.Code, tt.expectedCode, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tt.expectedBody) {
				t.Errorf("body %s does not contain %s", rr.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestProcessDocumentHandler_KeepsTraceId(t *testing.T) {
	d, h := setupHandlers(t)
	var gotTrace any
	d.rag.OnProcess = func(ctx context.Context, req jobModel.IngestRequest) (jobModel.IngestSummary, *rag.IngestError) {
		gotTrace = ctx.Value(config.TRACE_ID_KEY)
		return jobModel.IngestSummary{}, nil
	}
	serve(h, httptest.NewRequest(http.MethodPost, "/documents/process", strings.NewReader(`{}`)))
	if gotTrace != "trace-test" {
		t.Errorf("trace id not carried into the run, got %v", gotTrace)
	}
}

func TestDocumentStatusHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		status       documentModel.Status
		expectedCode int
		expectedBody string
	}{
		{"Completed", nil, documentModel.StatusCompleted, http.StatusOK, `"statusMessage":"Dokumen sudah siap! Bisa ditanya lewat WhatsApp 🎉"`},
		{"Not_Found", documentModel.ErrNotFound, "", http.StatusNotFound, `"error":"Dokumen tidak ditemukan"`},
		{"Store_Down", errors.New("conn refused"), "", http.StatusInternalServerError, `"error":"Gagal cek status dokumen"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, h := setupHandlers(t)
			d.rag.OnStatus = func(ctx context.Context, id string) (documentModel.Document, int, error) {
				if tt.err != nil {
					return documentModel.Document{}, 0, tt.err
				}
				return documentModel.Document{Id: id, FileName: "a.pdf", Status: tt.status}, 7, nil
			}

			rr := serve(h, httptest.NewRequest(http.MethodGet, "/documents/status/doc-9", nil))
			if rr.Code != tt.expectedCode {
				t.Errorf("status got %d, want %d", rr.Code, tt.expectedCode)
			}
			if !strings.Contains(rr.Body.String(), tt.expectedBody) {
				t.Errorf("body %s does not contain %s", rr.Body.String(), tt.expectedBody)
			}
		})
	}
}

func multipartUpload(t *testing.T, whatsapp, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if whatsapp != "" {
		if err := mw.WriteField("whatsapp_number", whatsapp); err != nil {
			t.Fatal(err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadDocumentHandler_Success(t *testing.T) {
	d, h := setupHandlers(t)

	rr := serve(h, multipartUpload(t, "62812", "notes.pdf", "application/pdf", []byte("%PDF-1.4 data")))
	if rr.Code != http.StatusOK {
		t.Fatalf("status got %d: %s", rr.Code, rr.Body.String())
	}

	var res api.UploadDocumentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Data.Id != "doc-new" || res.Data.Status != "uploaded" || res.Data.JobId == "" {
		t.Errorf("unexpected response %+v", res)
	}
	if d.files.uploadedFolder != "62812" {
		t.Errorf("file stored under %q, want the whatsapp number", d.files.uploadedFolder)
	}
	if d.docs.inserted.MimeType != "application/pdf" || !strings.HasSuffix(d.docs.inserted.FileURL, "/62812/notes.pdf") {
		t.Errorf("record not filled from upload: %+v", d.docs.inserted)
	}

	select {
	case queued := <-d.jobs.JobChannel:
		if queued.Id != res.Data.JobId || queued.Request.DocumentId != "doc-new" || queued.Request.UserId != "62812" {
			t.Errorf("queued job does not match upload: %+v", queued)
		}
	default:
		t.Error("no ingestion job queued")
	}
}

func TestUploadDocumentHandler_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		whatsapp     string
		contentType  string
		size         int
		expectedBody string
	}{
		{"Missing_Whatsapp", "", "application/pdf", 10, "WhatsApp number tidak ditemukan"},
		{"Unsupported_Type", "62", "application/zip", 10, "Format file tidak didukung"},
		{"Too_Large", "62", "application/pdf", config.MaxUploadSize + 1, "Maksimal 10MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, h := setupHandlers(t)
			rr := serve(h, multipartUpload(t, tt.whatsapp, "f.bin", tt.contentType, make([]byte, tt.size)))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status got %d, want 400", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.expectedBody) {
				t.Errorf("body %s does not contain %s", rr.Body.String(), tt.expectedBody)
			}
			if d.files.uploadedFolder != "" {
				t.Error("rejected upload reached storage")
			}
		})
	}
}

func TestUploadDocumentHandler_InsertFailureRollsBack(t *testing.T) {
	d, h := setupHandlers(t)
	d.docs.OnInsert = func(doc documentModel.Document) (documentModel.Document, error) {
		return documentModel.Document{}, errors.New("duplicate key")
	}

	rr := serve(h, multipartUpload(t, "62", "a.txt", "text/plain; charset=utf-8", []byte("hi")))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status got %d, want 500", rr.Code)
	}
	if len(d.files.deleted) != 1 || !strings.HasSuffix(d.files.deleted[0], "/62/a.txt") {
		t.Errorf("stored file not rolled back: %v", d.files.deleted)
	}
	if len(d.jobs.JobChannel) != 0 {
		t.Error("no job should be queued when the record is missing")
	}
}

func TestUploadDocumentHandler_StorageFailure(t *testing.T) {
	d, h := setupHandlers(t)
	d.files.OnUpload = func() (string, error) { return "", storage.ErrDownload }

	rr := serve(h, multipartUpload(t, "62", "a.md", "text/markdown", []byte("# hi")))
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "Gagal upload file ke storage") {
		t.Errorf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
	if d.docs.inserted.FileName != "" {
		t.Error("record inserted after a failed upload")
	}
}

func TestGetJobHandler(t *testing.T) {
	d, h := setupHandlers(t)
	ctx := context.Background()
	_ = d.jobs.JobStore.SaveJob(ctx, jobModel.Job{Id: "job-1", DocumentId: "doc-1", Status: jobModel.JobStatusRunning, CurrentStep: jobModel.EmbeddingStep})
	_ = d.events.Append(ctx, jobModel.Event{DocumentId: "doc-1", Stage: jobModel.DownloadStep, Ok: true})
	_ = d.events.Append(ctx, jobModel.Event{DocumentId: "doc-1", Stage: jobModel.ExtractStep, Ok: true})

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/jobs/job-1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status got %d", rr.Code)
	}
	var res api.JobResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "RUNNING" || res.CurrentStep != "Embedding" || len(res.Events) != 2 || res.Events[0].Stage != "Extract" {
		t.Errorf("unexpected job response %+v", res)
	}

	rr = serve(h, httptest.NewRequest(http.MethodGet, "/jobs/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown job got %d, want 404", rr.Code)
	}
}

func TestUploadContentType(t *testing.T) {
	tests := map[string]string{
		"text/plain; charset=utf-8": "text/plain",
		"Application/PDF":           "application/pdf",
		"":                          "",
	}
	for in, want := range tests {
		if got := uploadContentType(in); got != want {
			t.Errorf("uploadContentType(%q) = %q, want %q", in, got, want)
		}
	}
}
