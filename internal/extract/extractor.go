// Package extract turns a text-based supplier PDF into plain text for the
// structuring step. Reading order matters downstream: the LLM relies on
// line adjacency, so pages are emitted top-to-bottom in document order.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtractionFailed signals a missing, corrupt or unreadable PDF.
var ErrExtractionFailed = errors.New("extraction failed")

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Text extracts the concatenated plain text of all pages of the PDF at path.
func (e *Extractor) Text(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrExtractionFailed, path, err)
	}
	return e.TextFromBytes(content)
}

// TextFromBytes extracts the concatenated plain text of all pages.
func (e *Extractor) TextFromBytes(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtractionFailed)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtractionFailed, err)
	}

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages, keep the rest
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("%w: no text in document", ErrExtractionFailed)
	}
	return out, nil
}
