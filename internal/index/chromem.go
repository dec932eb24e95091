package index

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"docindex/internal/models"
)

const compress = false

// ChromemStore persists chunks in an embedded chromem-go collection.
// chromem keys documents by ID, so adding an existing ID replaces it.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func NewChromemStore(dbPath, collectionName string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create/get collection: %w", err)
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, chunks []models.Chunk) error {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:      c.ID,
			Content: c.Content,
			Metadata: map[string]string{
				"page_title":  c.PageTitle,
				"chunk_title": c.ChunkTitle,
			},
			Embedding: c.Vector,
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error) {
	// chromem rejects nResults larger than the collection.
	if count := s.collection.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}
	results, err := s.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query by similarity: %w", err)
	}
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, models.SearchResult{
			Chunk: models.Chunk{
				ID:         r.ID,
				PageTitle:  r.Metadata["page_title"],
				ChunkTitle: r.Metadata["chunk_title"],
				Content:    r.Content,
			},
			Score: r.Similarity,
		})
	}
	return out, nil
}
