package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func extractPDF(path string) ([]Page, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []Page
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Warn("skipping null page", "page", i, "path", path)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Unreadable pages are skipped, never fatal for the document.
			logger.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}

		pages = append(pages, Page{Number: i, Content: content})
	}
	return pages, nil
}

// extractFlatDocument reads a .docx, .rtf, .odt or plaintext file. These
// formats carry no page markers, so the whole body lands on a single page.
func extractFlatDocument(path string) ([]Page, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}
	return []Page{{Number: 1, Content: text}}, nil
}

// protectExtract runs page extraction on its own goroutine so a parser hang
// on a malformed page cannot stall the whole document.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("page extraction timeout")
	}
}
