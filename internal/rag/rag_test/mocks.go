package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/storage"
)

// MockDocumentStore implements documentModel.DocumentStore
type MockDocumentStore struct {
	mu       sync.Mutex
	Statuses []documentModel.Status

	OnGet          func(ctx context.Context, id string) (documentModel.Document, error)
	OnUpdateStatus func(ctx context.Context, id string, status documentModel.Status) error
	OnClaim        func(ctx context.Context, id string) error
}

func (m *MockDocumentStore) InsertDocument(ctx context.Context, doc documentModel.Document) (documentModel.Document, error) {
	return doc, nil
}

func (m *MockDocumentStore) GetDocument(ctx context.Context, id string) (documentModel.Document, error) {
	if m.OnGet != nil {
		return m.OnGet(ctx, id)
	}
	return documentModel.Document{Id: id, Status: documentModel.StatusUploaded}, nil
}

func (m *MockDocumentStore) UpdateStatus(ctx context.Context, id string, status documentModel.Status) error {
	m.mu.Lock()
	m.Statuses = append(m.Statuses, status)
	m.mu.Unlock()
	if m.OnUpdateStatus != nil {
		return m.OnUpdateStatus(ctx, id, status)
	}
	return nil
}

func (m *MockDocumentStore) ClaimForProcessing(ctx context.Context, id string) error {
	if m.OnClaim != nil {
		return m.OnClaim(ctx, id)
	}
	m.mu.Lock()
	m.Statuses = append(m.Statuses, documentModel.StatusProcessing)
	m.mu.Unlock()
	return nil
}

func (m *MockDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

func (m *MockDocumentStore) LastStatus() documentModel.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Statuses) == 0 {
		return ""
	}
	return m.Statuses[len(m.Statuses)-1]
}

// MockVectorStore implements documentModel.VectorStore
type MockVectorStore struct {
	InsertCalls int
	Rows        []documentModel.VectorRow

	OnInsertRows func(ctx context.Context, rows []documentModel.VectorRow) error
	OnCount      func(ctx context.Context, id string) (int, error)
}

func (m *MockVectorStore) InsertRows(ctx context.Context, rows []documentModel.VectorRow) error {
	m.InsertCalls++
	if m.OnInsertRows != nil {
		return m.OnInsertRows(ctx, rows)
	}
	m.Rows = append(m.Rows, rows...)
	return nil
}

func (m *MockVectorStore) CountByDocument(ctx context.Context, id string) (int, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, id)
	}
	return len(m.Rows), nil
}

// MockFileStore implements storage.FileStore
type MockFileStore struct {
	OnDownload func(ctx context.Context, url string) (storage.DownloadedFile, error)
}

func (m *MockFileStore) Upload(ctx context.Context, data []byte, name, folder, contentType string) (string, error) {
	return "https://files.local/" + folder + "/" + name, nil
}

func (m *MockFileStore) Download(ctx context.Context, url string) (storage.DownloadedFile, error) {
	if m.OnDownload != nil {
		return m.OnDownload(ctx, url)
	}
	return storage.DownloadedFile{Data: []byte("hello world. this is a document."), ContentType: "text/plain"}, nil
}

func (m *MockFileStore) Delete(ctx context.Context, url string) error {
	return nil
}

// MockExtractor implements rag.Extractor
type MockExtractor struct {
	GotMime   string
	OnExtract func(ctx context.Context, data []byte, mimeType, fileName string) (commonModels.ProcessedDocument, error)
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte, mimeType, fileName string) (commonModels.ProcessedDocument, error) {
	m.GotMime = mimeType
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data, mimeType, fileName)
	}
	pages := 2
	return commonModels.ProcessedDocument{
		Text: string(data),
		Type: commonModels.TXT,
		Metadata: commonModels.DocMetadata{
			PageCount: &pages,
			WordCount: 6,
			CharCount: len(data),
		},
	}, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	Calls   int
	OnBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.Calls++
	if m.OnBatch != nil {
		return m.OnBatch(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0.5}
	}
	return out, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

// MockEventStore implements jobModel.EventStore
type MockEventStore struct {
	mu     sync.Mutex
	Events []jobModel.Event
}

func (m *MockEventStore) Append(ctx context.Context, e jobModel.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, e)
	return nil
}

func (m *MockEventStore) Recent(ctx context.Context, documentId string) ([]jobModel.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]jobModel.Event(nil), m.Events...), nil
}
