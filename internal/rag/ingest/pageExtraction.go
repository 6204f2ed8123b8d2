package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/xuri/excelize/v2"
)

func extractPDF(ctx context.Context, data []byte, _ string) (doc commonModels.ProcessedDocument, err error) {
	log := logger.WithContext(ctx)

	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return doc, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := r.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			log.Debug("extractPDF", "page value is null", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// keep going, one unreadable page should not drop the document
			log.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}
	return newProcessedDocument(sb.String(), &numPages), nil
}

// protectExtract bounds a single page parse, the library can spin on broken content streams.
// GetPlainText takes no context, so on timeout the parsing goroutine is abandoned and runs until
// the library returns. The buffered channel lets it exit without a reader once it does.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page parse panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PdfPageExtractLimit):
		return "", errors.New("page extraction timeout")
	}
}

// extractWord handles docx, plus odt/rtf bodies that arrive labelled as word documents
func extractWord(_ context.Context, data []byte, _ string) (commonModels.ProcessedDocument, error) {
	text, err := cat.FromBytes(data)
	if err != nil {
		return commonModels.ProcessedDocument{}, fmt.Errorf("failed to extract word document: %w", err)
	}
	return newProcessedDocument(text, nil), nil
}

func extractSpreadsheet(_ context.Context, data []byte, _ string) (commonModels.ProcessedDocument, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return commonModels.ProcessedDocument{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return commonModels.ProcessedDocument{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		sb.WriteString("\n=== Sheet: ")
		sb.WriteString(sheet)
		sb.WriteString(" ===\n")
		for i, row := range rows {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.Join(row, "\t"))
		}
		sb.WriteString("\n")
	}
	return newProcessedDocument(sb.String(), nil), nil
}

func plainText(docType commonModels.DocType) extractFunc {
	return func(_ context.Context, data []byte, _ string) (commonModels.ProcessedDocument, error) {
		text := string(data)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "�")
		}
		doc := newProcessedDocument(text, nil)
		doc.Type = docType
		return doc, nil
	}
}
