package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"docindex/internal/models"
)

// MemoryStore is a brute-force cosine-similarity store for tests and dry
// runs. Chunks are keyed by ID, so upserting an existing ID replaces it.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	chunks    map[string]models.Chunk
}

func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension, chunks: map[string]models.Chunk{}}
}

func (s *MemoryStore) Upsert(ctx context.Context, chunks []models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if s.dimension > 0 && len(c.Vector) != s.dimension {
			return fmt.Errorf("chunk %s: vector dimension %d, want %d", c.ID, len(c.Vector), s.dimension)
		}
		s.chunks[c.ID] = c
	}
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = models.DefaultTopK
	}
	results := make([]models.SearchResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		results = append(results, models.SearchResult{Chunk: c, Score: cosine(c.Vector, vector)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Len reports the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
