package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"docindex/internal/config"
	"docindex/internal/index"
	"docindex/internal/models"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeLLM struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range messages {
		if m.Role == schema.ChatMessageTypeHuman {
			for _, part := range m.Parts {
				if tc, ok := part.(llms.TextContent); ok {
					f.lastPrompt = tc.Text
				}
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.reply, f.err
}

func populatedStore(t *testing.T, n int) *index.MemoryStore {
	t.Helper()
	store := index.NewMemoryStore(2)
	chunks := make([]models.Chunk, 0, n)
	for i := 0; i < n; i++ {
		angle := float32(i) * 0.1
		chunks = append(chunks, models.Chunk{
			ID:         fmt.Sprintf("c%d", i),
			PageTitle:  "iot-guide",
			ChunkTitle: fmt.Sprintf("section %d", i),
			Content:    fmt.Sprintf("iot content %d", i),
			Vector:     []float32{1 - angle, angle},
		})
	}
	require.NoError(t, store.Upsert(context.Background(), chunks))
	return store
}

func testConfig() *config.Config {
	return &config.Config{
		RAG:     config.RAGConfig{TopK: 3},
		ChatLLM: config.LLMConfig{TimeoutSecs: 5},
	}
}

func TestSearchTopK(t *testing.T) {
	store := populatedStore(t, 10)
	r := New(&fakeEmbedder{vec: []float32{1, 0}}, store, &fakeLLM{}, testConfig())

	results, err := r.Search(context.Background(), "iot", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "c0", results[0].Chunk.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	for _, res := range results {
		assert.NotEmpty(t, res.Chunk.PageTitle)
		assert.NotEmpty(t, res.Chunk.ChunkTitle)
		assert.NotEmpty(t, res.Chunk.Content)
	}
}

func TestAnswerGroundsPromptInRetrievedChunks(t *testing.T) {
	store := populatedStore(t, 5)
	llm := &fakeLLM{reply: "grounded answer"}
	r := New(&fakeEmbedder{vec: []float32{1, 0}}, store, llm, testConfig())

	answer, err := r.Answer(context.Background(), "what is iot?")
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", answer.Content)
	assert.Equal(t, "what is iot?", answer.Query)
	assert.Len(t, answer.Sources, 3)
	assert.Contains(t, llm.lastPrompt, "iot content 0")
	assert.Contains(t, llm.lastPrompt, "what is iot?")
}

func TestAnswerEmbeddingFailureSurfaces(t *testing.T) {
	r := New(&fakeEmbedder{err: errors.New("embedding down")}, populatedStore(t, 2), &fakeLLM{}, testConfig())
	_, err := r.Answer(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestAnswerGenerationFailureSurfaces(t *testing.T) {
	r := New(&fakeEmbedder{vec: []float32{1, 0}}, populatedStore(t, 2), &fakeLLM{err: errors.New("model down")}, testConfig())
	_, err := r.Answer(context.Background(), "query")
	require.Error(t, err)
}
