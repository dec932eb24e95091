package parser

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts per-page plain text. Pages arrive in order; each page
// is split into paragraph sections.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	var sections []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		sections = append(sections, splitSections(pageText)...)
	}
	return sections, nil
}
