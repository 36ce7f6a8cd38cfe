package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

var logger = logger_i.NewLogger("Text Extraction")

// ErrTextTooShort signals that a document yielded no usable text: zero
// readable pages, or fewer characters than the summarization minimum.
// Downstream stages must treat this as an explicit stop, not an empty string.
var ErrTextTooShort = errors.New("extracted text too short to analyze")

type Page struct {
	Number  int
	Content string
}

// DocTypeOf maps a file path to a supported document type by extension.
func DocTypeOf(path string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

// Text extracts the full document text: pages are pulled one by one, a page
// that fails extraction is skipped with a warning, readable pages are joined
// by newlines and trimmed. Returns ErrTextTooShort when the result is below
// the minimum usable length.
func Text(path string, contentType commonModels.DocType) (string, error) {
	pages, err := extractPages(path, contentType)
	if err != nil {
		return "", err
	}
	return JoinPages(pages)
}

// JoinPages concatenates readable page content, newline-separated and
// trimmed, enforcing the minimum-length guard.
func JoinPages(pages []Page) (string, error) {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Content)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(b.String())
	if len(text) < config.MinDocumentTextLength {
		return "", ErrTextTooShort
	}
	return text, nil
}

func extractPages(path string, contentType commonModels.DocType) ([]Page, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX, commonModels.TXT:
		return extractFlatDocument(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}
