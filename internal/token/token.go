// Package token counts tokens against the embedding model's input ceiling.
//
// The counter uses tiktoken's cl100k_base encoding, which matches the OpenAI
// embedding family. When the configured embedder is a different model (e.g.
// an ollama one) the count is an approximation of that model's true encoding.
package token

import (
	"github.com/pkoukk/tiktoken-go"
)

// MaxInputTokens is the per-request input ceiling of the reference embedding
// model (text-embedding-3-large).
const MaxInputTokens = 8191

// DefaultEncoding is the BPE encoding shared by the OpenAI embedding models.
const DefaultEncoding = "cl100k_base"

// Counter reports the token count of a text. Implementations must be
// deterministic and side-effect free.
type Counter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter builds a Counter for the given tiktoken encoding name.
func NewCounter(encoding string) (Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &tiktokenCounter{enc: enc}, nil
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
