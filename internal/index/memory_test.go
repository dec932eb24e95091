package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docindex/internal/models"
)

func TestMemoryStoreUpsertReplacesByID(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []models.Chunk{
		{ID: "a", Content: "old", Vector: []float32{1, 0}},
	}))
	require.NoError(t, s.Upsert(ctx, []models.Chunk{
		{ID: "a", Content: "new", Vector: []float32{1, 0}},
	}))

	assert.Equal(t, 1, s.Len())
	results, err := s.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Chunk.Content)
}

func TestMemoryStoreRejectsDimensionMismatch(t *testing.T) {
	s := NewMemoryStore(3)
	err := s.Upsert(context.Background(), []models.Chunk{{ID: "a", Vector: []float32{1, 0}}})
	assert.Error(t, err)
}

func TestMemoryStoreSearchRanksAndClamps(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	chunks := make([]models.Chunk, 0, 10)
	for i := 0; i < 10; i++ {
		// vectors fan out from the x axis, chunk 0 closest to the query
		angle := float32(i) * 0.15
		chunks = append(chunks, models.Chunk{
			ID:         fmt.Sprintf("c%d", i),
			PageTitle:  "iot-handbook",
			ChunkTitle: fmt.Sprintf("section %d", i),
			Content:    fmt.Sprintf("content %d", i),
			Vector:     []float32{1 - angle, angle},
		})
	}
	require.NoError(t, s.Upsert(ctx, chunks))

	results, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "c0", results[0].Chunk.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "descending scores")
	}
	for _, r := range results {
		assert.NotEmpty(t, r.Chunk.PageTitle)
		assert.NotEmpty(t, r.Chunk.ChunkTitle)
		assert.NotEmpty(t, r.Chunk.Content)
	}
}

func TestMemoryStoreSearchDefaultK(t *testing.T) {
	s := NewMemoryStore(0)
	require.NoError(t, s.Upsert(context.Background(), []models.Chunk{
		{ID: "a", Vector: []float32{1}},
		{ID: "b", Vector: []float32{0.5}},
	}))
	results, err := s.Search(context.Background(), []float32{1}, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[1,0.5,-2]", vectorLiteral([]float32{1, 0.5, -2}))
	assert.Equal(t, "[]", vectorLiteral(nil))
}
