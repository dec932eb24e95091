package parser

import (
	"fmt"

	"github.com/nguyenthenguyen/docx"
)

// DocxExtractor extracts paragraphs from a Word document.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(path string) ([]string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docx %s: %w", path, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	return splitSections(content), nil
}
