// Package rag answers queries by retrieving relevant chunks and grounding a
// generation call on them.
//
// Integration mode: the top-k retrieved chunk contents are concatenated into
// the prompt before calling the generation model. That keeps the retrieved
// evidence visible in the request at the cost of prompt size.
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"docindex/internal/config"
	"docindex/internal/embedding"
	"docindex/internal/index"
	"docindex/internal/llmservice"
	"docindex/internal/models"
)

type RAG struct {
	embedder     embedding.Embedder
	store        index.Store
	llm          llms.Model
	topK         int
	timeout      time.Duration
	systemPrompt string
}

func New(embedder embedding.Embedder, store index.Store, llm llms.Model, cfg *config.Config) *RAG {
	topK := cfg.RAG.TopK
	if topK <= 0 {
		topK = models.DefaultTopK
	}
	systemPrompt := cfg.RAG.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = models.SystemPrompt
	}
	return &RAG{
		embedder:     embedder,
		store:        store,
		llm:          llm,
		topK:         topK,
		timeout:      time.Duration(cfg.ChatLLM.TimeoutSecs) * time.Second,
		systemPrompt: systemPrompt,
	}
}

// Search embeds the query and returns the top-k nearest chunks with scores.
func (r *RAG) Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	if topK <= 0 {
		topK = r.topK
	}
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	log.Debug().Str("query", query).Int("results", len(results)).Msg("Vector search")
	return results, nil
}

// Answer retrieves grounding context for the query and generates an answer.
func (r *RAG) Answer(ctx context.Context, query string) (*models.Answer, error) {
	sources, err := r.Search(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}

	var contextText strings.Builder
	for _, src := range sources {
		fmt.Fprintf(&contextText, "[%s / %s]\n%s\n\n", src.Chunk.PageTitle, src.Chunk.ChunkTitle, src.Chunk.Content)
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText.String(), query)
	content, err := llmservice.Complete(ctx, r.llm, r.timeout, r.systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	return &models.Answer{
		Query:   query,
		Sources: sources,
		Content: content,
	}, nil
}
