package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrExtractionFailed   = errors.New("text extraction failed")
	ErrImageExtraction    = fmt.Errorf("image %w", ErrExtractionFailed)
	ErrEmptyDocument      = errors.New("document is empty or could not be processed")
	ErrInvalidChunkConfig = errors.New("chunk overlap must be non-negative and smaller than chunk size")
)

var logger = logger_i.NewLogger("Document Ingestion")

const (
	mimePDF         = "application/pdf"
	mimeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc         = "application/msword"
	mimeXlsx        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXls         = "application/vnd.ms-excel"
	mimeCSV         = "text/csv"
	mimePNG         = "image/png"
	mimeJPEG        = "image/jpeg"
	mimeJPG         = "image/jpg"
	mimeOctetStream = "application/octet-stream"
)

type extractFunc func(ctx context.Context, data []byte, mimeType string) (commonModels.ProcessedDocument, error)

// strategyEntry pairs a format predicate with its extraction strategy.
type strategyEntry struct {
	name    commonModels.DocType
	matches func(mimeType, fileName string) bool
	extract extractFunc
}

// Extractor turns raw file bytes into text. Strategies are tried in table order and the first match wins.
type Extractor struct {
	strategies []strategyEntry
}

func NewExtractor(images *ImageExtractor) *Extractor {
	return &Extractor{
		strategies: []strategyEntry{
			{name: commonModels.IMAGE, matches: IsOCRSupportedImage, extract: images.extract},
			{name: commonModels.PDF, matches: mimeIs(mimePDF), extract: extractPDF},
			{name: commonModels.WORD, matches: anyOf(mimeIs(mimeDocx, mimeDoc), extIs(".docx", ".doc")), extract: extractWord},
			{name: commonModels.SPREADSHEET, matches: anyOf(mimeIs(mimeXlsx, mimeXls), extIs(".xlsx", ".xls")), extract: extractSpreadsheet},
			{name: commonModels.CSV, matches: anyOf(mimeIs(mimeCSV), extIs(".csv")), extract: plainText(commonModels.CSV)},
			{name: commonModels.TXT, matches: anyOf(mimePrefix("text/"), extIs(".txt", ".md", ".markdown")), extract: plainText(commonModels.TXT)},
		},
	}
}

// Resolve reports which strategy would handle the input without running it
func (e *Extractor) Resolve(mimeType, fileName string) (commonModels.DocType, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, s := range e.strategies {
		if s.matches(mimeType, fileName) {
			return s.name, true
		}
	}
	return "", false
}

func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType, fileName string) (commonModels.ProcessedDocument, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	log := logger.WithContext(ctx).With("fileName", fileName, "mimeType", mimeType)

	for _, s := range e.strategies {
		if !s.matches(mimeType, fileName) {
			continue
		}
		log.Debug("Extracting document", "strategy", s.name, "bytes", len(data))
		doc, err := s.extract(ctx, data, mimeType)
		if err != nil {
			log.Error("Extraction failed", "strategy", s.name, "error", err)
			if errors.Is(err, ErrExtractionFailed) {
				return commonModels.ProcessedDocument{}, err
			}
			return commonModels.ProcessedDocument{}, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, s.name, err)
		}
		doc.Type = s.name
		return doc, nil
	}
	return commonModels.ProcessedDocument{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
}

func newProcessedDocument(text string, pageCount *int) commonModels.ProcessedDocument {
	return commonModels.ProcessedDocument{
		Text: text,
		Metadata: commonModels.DocMetadata{
			PageCount: pageCount,
			WordCount: len(strings.Fields(text)),
			CharCount: utf8.RuneCountInString(text),
		},
	}
}

func mimeIs(types ...string) func(string, string) bool {
	return func(mimeType, _ string) bool {
		for _, t := range types {
			if mimeType == t {
				return true
			}
		}
		return false
	}
}

func mimePrefix(prefix string) func(string, string) bool {
	return func(mimeType, _ string) bool {
		return strings.HasPrefix(mimeType, prefix)
	}
}

func extIs(exts ...string) func(string, string) bool {
	return func(_, fileName string) bool {
		name := strings.ToLower(fileName)
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
		return false
	}
}

func anyOf(preds ...func(string, string) bool) func(string, string) bool {
	return func(mimeType, fileName string) bool {
		for _, p := range preds {
			if p(mimeType, fileName) {
				return true
			}
		}
		return false
	}
}
