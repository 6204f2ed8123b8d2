package llm

import "context"

// VisionRequest is one text-extraction call against a multimodal model
type VisionRequest struct {
	Prompt    string
	MimeType  string
	Data      []byte
	DataURL   string // data:<mime>;base64,<payload>
	MaxTokens int64
}

// VisionProvider reads the text out of an image or document page
type VisionProvider interface {
	ExtractText(ctx context.Context, req VisionRequest) (string, error)
}
