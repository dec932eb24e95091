package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// PptxExtractor extracts one section per slide by walking the slide XML
// inside the pptx archive.
type PptxExtractor struct{}

func (e *PptxExtractor) Extract(path string) ([]string, error) {
	f, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("read pptx %s: %w", path, err)
	}
	defer f.Close()

	var sections []string
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideText := strings.TrimSpace(slideRunsText(string(data)))
		if slideText == "" {
			continue
		}
		sections = append(sections, splitOversize(slideText, maxSectionChars, sectionOverlapChars)...)
	}
	return sections, nil
}

// slideRunsText pulls the text runs (<a:t> elements) out of slide XML.
func slideRunsText(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if endIdx := strings.Index(part, "</a:t>"); endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}
