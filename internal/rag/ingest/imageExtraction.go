package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/akolanti/mindsync/internal/rag/llm"
	"github.com/gabriel-vasile/mimetype"
)

const (
	promptGeneric     = "Extract all text from this document. Return only the text content, preserving structure and formatting. If there's no text, return an empty string."
	promptPDF         = "Extract all text from this PDF document. Return only the text content, preserving paragraphs and structure. Include all pages. If there's no text, return an empty string."
	promptImage       = "Extract all text from this image. Return only the text content, nothing else. If there's no text, return an empty string."
	promptWord        = "Extract all text from this Word document. Return only the text content, preserving paragraphs and structure. If there's no text, return an empty string."
	promptSpreadsheet = "Extract all text from this Excel spreadsheet. Return the content in a readable format, preserving table structure. If there's no text, return an empty string."
)

var (
	manyNewlines   = regexp.MustCompile(`\n{3,}`)
	manyWhitespace = regexp.MustCompile(`\s{2,}`)
)

type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ImageExtractor stands in for OCR by asking a vision model to transcribe the file
type ImageExtractor struct {
	vision llm.VisionProvider
}

func NewImageExtractor(vision llm.VisionProvider) *ImageExtractor {
	return &ImageExtractor{vision: vision}
}

func (e *ImageExtractor) ExtractFromImage(ctx context.Context, data []byte, mimeType string) (OCRResult, error) {
	if e == nil || e.vision == nil {
		return OCRResult{}, fmt.Errorf("%w: no vision provider configured", ErrImageExtraction)
	}
	if len(data) == 0 {
		return OCRResult{}, fmt.Errorf("%w: empty buffer", ErrImageExtraction)
	}

	detected := detectMimeType(data, mimeType)
	req := llm.VisionRequest{
		Prompt:    promptFor(detected),
		MimeType:  detected,
		Data:      data,
		DataURL:   "data:" + detected + ";base64," + base64.StdEncoding.EncodeToString(data),
		MaxTokens: config.VisionMaxTokens,
	}

	log := logger.WithContext(ctx).With("mimeType", detected)
	log.Debug("Running vision text extraction", "bytes", len(data))

	raw, err := e.vision.ExtractText(ctx, req)
	if err != nil {
		return OCRResult{}, fmt.Errorf("%w: vision provider: %w", ErrImageExtraction, err)
	}

	text := cleanModelText(raw)
	log.Debug("Vision text extraction done", "chars", len(text))
	return OCRResult{Text: text, Confidence: config.ImageOCRConfidence}, nil
}

func (e *ImageExtractor) extract(ctx context.Context, data []byte, mimeType string) (commonModels.ProcessedDocument, error) {
	res, err := e.ExtractFromImage(ctx, data, mimeType)
	if err != nil {
		return commonModels.ProcessedDocument{}, err
	}
	return newProcessedDocument(res.Text, nil), nil
}

// IsOCRSupportedImage reports whether the file is a png or jpeg, by mime type or file extension
func IsOCRSupportedImage(mimeType, fileName string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case mimePNG, mimeJPEG, mimeJPG:
		return true
	}
	name := strings.ToLower(fileName)
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// detectMimeType trusts the declared type and only sniffs when none was given
func detectMimeType(data []byte, declared string) string {
	if declared = strings.ToLower(strings.TrimSpace(declared)); declared != "" && declared != mimeOctetStream {
		return declared
	}
	m := mimetype.Detect(data)
	switch {
	case m.Is(mimePNG):
		return mimePNG
	case m.Is(mimeJPEG):
		return mimeJPEG
	case m.Is(mimePDF):
		return mimePDF
	}
	return mimePNG
}

func promptFor(mimeType string) string {
	switch {
	case mimeType == mimePDF:
		return promptPDF
	case strings.HasPrefix(mimeType, "image/"):
		return promptImage
	case strings.Contains(mimeType, "word") || strings.Contains(mimeType, "document"):
		return promptWord
	case strings.Contains(mimeType, "excel") || strings.Contains(mimeType, "spreadsheet"):
		return promptSpreadsheet
	}
	return promptGeneric
}

func cleanModelText(s string) string {
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	s = manyWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
