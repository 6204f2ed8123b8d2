package mcpServer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/mindsync/internal/adapter"
	"github.com/akolanti/mindsync/internal/api"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/rag"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = logger_i.NewLogger("MCP")

type ProcessDocumentInput struct {
	DocumentId     string `json:"documentId" jsonschema:"id of an uploaded document"`
	FileName       string `json:"fileName" jsonschema:"original file name, used for format detection"`
	WhatsappNumber string `json:"whatsappNumber" jsonschema:"owner whatsapp number"`
	FileURL        string `json:"fileUrl" jsonschema:"storage url of the file"`
	MimeType       string `json:"mimeType,omitempty" jsonschema:"declared mime type, optional"`
}

type DocumentStatusInput struct {
	DocumentId string `json:"documentId" jsonschema:"id of the document"`
}

type tools struct {
	ragService rag.Service
}

// NewServer registers the ingestion tools on a fresh mcp server
func NewServer(ragService rag.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "mindsync", Version: "v1.0.0"}, nil)
	t := &tools{ragService: ragService}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_document",
		Description: "Download, extract, chunk, embed and store an uploaded document. The document must be in the uploaded status.",
	}, t.processDocument)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "document_status",
		Description: "Read the ingestion status of a document and, once completed, its chunk count.",
	}, t.documentStatus)
	return server
}

// NewHandler serves the tools over streamable http
func NewHandler(ragService rag.Service) http.Handler {
	server := NewServer(ragService)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func (t *tools) processDocument(ctx context.Context, req *mcp.CallToolRequest, in ProcessDocumentInput) (*mcp.CallToolResult, api.ProcessDocumentData, error) {
	logger.WithContext(ctx).Info("process_document called", "documentId", in.DocumentId)

	summary, ierr := t.ragService.ProcessDocument(context.WithoutCancel(ctx), jobModel.IngestRequest{
		DocumentId: in.DocumentId,
		FileName:   in.FileName,
		UserId:     in.WhatsappNumber,
		FileURL:    in.FileURL,
		MimeType:   in.MimeType,
	})
	if ierr != nil {
		return toolError(fmt.Sprintf("%s (%s): %s", ierr.Message, ierr.Kind, ierr.Details())), api.ProcessDocumentData{}, nil
	}

	data := adapter.ToProcessData(summary)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%s %d chunks, %d words.", adapter.ProcessSuccessMessage, data.ChunksCount, data.TotalWords),
		}},
	}, data, nil
}

func (t *tools) documentStatus(ctx context.Context, req *mcp.CallToolRequest, in DocumentStatusInput) (*mcp.CallToolResult, api.DocumentStatusData, error) {
	if in.DocumentId == "" {
		return toolError("Document ID tidak ditemukan"), api.DocumentStatusData{}, nil
	}
	doc, count, err := t.ragService.DocumentStatus(ctx, in.DocumentId)
	if errors.Is(err, documentModel.ErrNotFound) {
		return toolError("Dokumen tidak ditemukan"), api.DocumentStatusData{}, nil
	}
	if err != nil {
		return nil, api.DocumentStatusData{}, fmt.Errorf("document status: %w", err)
	}

	data := adapter.ToStatusResponse(doc, count).Data
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%s: %s (%s)", data.FileName, data.Status, data.StatusMessage),
		}},
	}, data, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
