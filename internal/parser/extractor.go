// Package parser turns source documents into ordered raw text sections.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound means the document path does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnsupportedFormat means no extractor is registered for the extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Extractor yields the raw text sections of one document, in document order.
type Extractor interface {
	Extract(path string) ([]string, error)
}

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry with the built-in extractors registered.
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Extractor{}}
	r.Register(".pdf", &PDFExtractor{})
	r.Register(".docx", &DocxExtractor{})
	r.Register(".pptx", &PptxExtractor{})
	r.Register(".xlsx", &XlsxExtractor{})
	r.Register(".ods", &OdsExtractor{})
	r.Register(".csv", &CSVExtractor{})
	r.Register(".md", NewMarkdownExtractor())
	return r
}

// Register binds an extractor to a lowercase extension (including the dot).
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Extract locates the extractor for the path's extension and runs it.
func (r *Registry) Extract(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return e.Extract(path)
}

const (
	// maxSectionChars bounds a single extracted section; blocks beyond it are
	// re-split with overlap so no section approaches the embedding ceiling
	// on ordinary prose.
	maxSectionChars     = 16000
	sectionOverlapChars = 500
)

// splitSections breaks a block of text into double-newline-delimited
// sections, re-splitting any block that exceeds maxSectionChars.
func splitSections(text string) []string {
	var sections []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(block) <= maxSectionChars {
			sections = append(sections, block)
			continue
		}
		sections = append(sections, splitOversize(block, maxSectionChars, sectionOverlapChars)...)
	}
	return sections
}

// splitOversize chops content into pieces of at most maxChars with
// overlapChars of carry-over, preferring to break at a space, newline or
// period near the end of each piece.
func splitOversize(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}
	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var pieces []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
			// never cut a multi-byte rune
			for end > start && !utf8.RuneStart(content[end]) {
				end--
			}
		}
		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			pieces = append(pieces, piece)
		}
		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
		for start < contentLen && !utf8.RuneStart(content[start]) {
			start++
		}
	}
	return pieces
}
