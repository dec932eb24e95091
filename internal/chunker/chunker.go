// Package chunker turns raw document sections into token-bounded chunk
// candidates.
package chunker

import (
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"docindex/internal/normalize"
	"docindex/internal/token"
)

// Policy decides what happens to the rest of a document once a section
// overflows the token ceiling. The two policies produce different index
// coverage, so the choice is explicit configuration, not control flow.
type Policy string

const (
	// AbortDocument stops processing the document's remaining sections on
	// the first overflow.
	AbortDocument Policy = "abort-document"
	// SkipChunk drops only the offending section and continues.
	SkipChunk Policy = "skip-chunk"
)

// ParsePolicy validates a configured policy string.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(s) {
	case AbortDocument, SkipChunk:
		return Policy(s), true
	default:
		return "", false
	}
}

const (
	titleMaxChars = 200
	ellipsis      = "..."
)

// Candidate is an accepted chunk awaiting embedding and identity assignment.
type Candidate struct {
	PageTitle string
	Title     string
	Content   string // normalized, token count <= the configured ceiling
	Ordinal   int    // position of the source section within the document
	Seq       uint64 // process-wide diagnostic counter, also names staging files
}

// Overflow records a section rejected for exceeding the token ceiling.
type Overflow struct {
	PageTitle string
	Ordinal   int
	Tokens    int
}

type Chunker struct {
	counter   token.Counter
	maxTokens int
	policy    Policy
	seq       atomic.Uint64
}

func New(counter token.Counter, maxTokens int, policy Policy) *Chunker {
	if maxTokens <= 0 {
		maxTokens = token.MaxInputTokens
	}
	if policy == "" {
		policy = AbortDocument
	}
	return &Chunker{counter: counter, maxTokens: maxTokens, policy: policy}
}

// ChunkDocument normalizes each section, derives its title, and enforces the
// token ceiling. Overflowing sections are rejected, never truncated.
func (c *Chunker) ChunkDocument(pageTitle string, sections []string) ([]Candidate, []Overflow) {
	var candidates []Candidate
	var overflows []Overflow
	for i, raw := range sections {
		content := normalize.Normalize(raw)
		if strings.TrimSpace(content) == "" {
			continue
		}
		tokens := c.counter.Count(content)
		if tokens > c.maxTokens {
			overflows = append(overflows, Overflow{PageTitle: pageTitle, Ordinal: i, Tokens: tokens})
			log.Warn().
				Str("document", pageTitle).
				Int("chunk_index", i).
				Int("tokens", tokens).
				Int("max_tokens", c.maxTokens).
				Msg("Chunk exceeds token ceiling, rejected")
			if c.policy == AbortDocument {
				break
			}
			continue
		}
		candidates = append(candidates, Candidate{
			PageTitle: pageTitle,
			Title:     deriveTitle(raw),
			Content:   content,
			Ordinal:   i,
			Seq:       c.seq.Add(1),
		})
	}
	return candidates, overflows
}

// deriveTitle takes the text preceding the first period-newline sequence of
// the pre-normalization section, capped at titleMaxChars with an ellipsis.
func deriveTitle(raw string) string {
	title := raw
	if idx := strings.Index(raw, ".\n"); idx >= 0 {
		title = raw[:idx]
	}
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) > titleMaxChars {
		return string(runes[:titleMaxChars]) + ellipsis
	}
	return title
}
