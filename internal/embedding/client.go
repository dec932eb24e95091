package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"docindex/internal/config"
)

// queryEmbedder is the slice of langchaingo's embedder the client needs;
// tests substitute a fake.
type queryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Client adds per-call timeouts and bounded exponential backoff on retryable
// failures. Non-retryable failures (bad requests) surface immediately.
type Client struct {
	impl       queryEmbedder
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(impl queryEmbedder, cfg *config.LLMConfig) *Client {
	return &Client{
		impl:       impl,
		timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
		maxRetries: cfg.MaxRetries,
		baseDelay:  500 * time.Millisecond,
	}
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			log.Debug().Dur("delay", delay).Int("attempt", attempt).Msg("Retrying embedding call")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		vec, err := c.impl.EmbedQuery(callCtx, text)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !Retryable(err) {
			return nil, fmt.Errorf("embed: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("embed: retries exhausted: %w", lastErr)
}
