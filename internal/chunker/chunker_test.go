package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordCounter approximates tokens as whitespace-separated words, which is
// enough to exercise the ceiling logic deterministically.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func TestChunkDocument(t *testing.T) {
	c := New(wordCounter{}, 10, SkipChunk)
	candidates, overflows := c.ChunkDocument("manual", []string{
		"First section.\nMore detail follows here.",
		"short second section",
	})
	require.Empty(t, overflows)
	require.Len(t, candidates, 2)

	assert.Equal(t, "manual", candidates[0].PageTitle)
	assert.Equal(t, "First section", candidates[0].Title)
	assert.Equal(t, "First section.More detail follows here.", candidates[0].Content)
	assert.Equal(t, 0, candidates[0].Ordinal)
	assert.Equal(t, 1, candidates[1].Ordinal)
	assert.Greater(t, candidates[1].Seq, candidates[0].Seq)
}

func TestChunkDocumentSkipsEmptySections(t *testing.T) {
	c := New(wordCounter{}, 10, SkipChunk)
	candidates, overflows := c.ChunkDocument("doc", []string{"", "  \n ", "real content"})
	require.Empty(t, overflows)
	require.Len(t, candidates, 1)
	assert.Equal(t, 2, candidates[0].Ordinal)
}

func TestOverflowAbortDocument(t *testing.T) {
	c := New(wordCounter{}, 3, AbortDocument)
	candidates, overflows := c.ChunkDocument("doc", []string{
		"ok one",
		"this section has far too many words to pass",
		"ok two",
	})
	require.Len(t, overflows, 1)
	assert.Equal(t, 1, overflows[0].Ordinal)
	// the rest of the document is abandoned
	require.Len(t, candidates, 1)
	assert.Equal(t, 0, candidates[0].Ordinal)
}

func TestOverflowSkipChunk(t *testing.T) {
	c := New(wordCounter{}, 3, SkipChunk)
	candidates, overflows := c.ChunkDocument("doc", []string{
		"ok one",
		"this section has far too many words to pass",
		"ok two",
	})
	require.Len(t, overflows, 1)
	require.Len(t, candidates, 2)
	assert.Equal(t, 2, candidates[1].Ordinal)
}

func TestNoCandidateExceedsCeiling(t *testing.T) {
	c := New(wordCounter{}, 5, SkipChunk)
	sections := []string{
		"one two three",
		"one two three four five six seven",
		"one two three four five",
	}
	candidates, _ := c.ChunkDocument("doc", sections)
	for _, cand := range candidates {
		assert.LessOrEqual(t, wordCounter{}.Count(cand.Content), 5)
	}
}

func TestDeriveTitle(t *testing.T) {
	t.Run("text before period-newline", func(t *testing.T) {
		assert.Equal(t, "A heading sentence", deriveTitle("A heading sentence.\nbody text"))
	})
	t.Run("no terminator uses whole text", func(t *testing.T) {
		assert.Equal(t, "no terminator here", deriveTitle("no terminator here"))
	})
	t.Run("long title truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		got := deriveTitle(long)
		assert.Len(t, got, 203)
		assert.True(t, strings.HasSuffix(got, "..."))
	})
	t.Run("exactly 200 chars untouched", func(t *testing.T) {
		exact := strings.Repeat("b", 200)
		assert.Equal(t, exact, deriveTitle(exact))
	})
}

func TestParsePolicy(t *testing.T) {
	p, ok := ParsePolicy("abort-document")
	require.True(t, ok)
	assert.Equal(t, AbortDocument, p)

	p, ok = ParsePolicy("skip-chunk")
	require.True(t, ok)
	assert.Equal(t, SkipChunk, p)

	_, ok = ParsePolicy("truncate")
	assert.False(t, ok)
}
