package parser

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor splits a markdown file into its top-level blocks using
// the goldmark AST. Inline markdown syntax is preserved in the section text;
// the normalizer deals with it downstream.
type MarkdownExtractor struct {
	md goldmark.Markdown
}

func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (e *MarkdownExtractor) Extract(path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	root := e.md.Parser().Parse(text.NewReader(src))
	var sections []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		s := strings.TrimSpace(blockText(n, src))
		if s == "" {
			continue
		}
		sections = append(sections, splitOversize(s, maxSectionChars, sectionOverlapChars)...)
	}
	return sections, nil
}

// blockText reads the raw source lines of a block node, recursing into
// containers (lists, quotes) that carry no lines themselves.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return b.String()
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		part := blockText(c, src)
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part)
	}
	return b.String()
}
