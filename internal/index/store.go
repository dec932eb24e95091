// Package index holds the Index Store implementations. A chunk keyed by its
// ID is the unit of storage; re-upserting an ID replaces the entry.
package index

import (
	"context"
	"fmt"

	"docindex/internal/config"
	"docindex/internal/models"
)

// Store is the index the pipeline writes to and the retriever reads from.
type Store interface {
	// Upsert inserts or replaces chunks keyed by their ID.
	Upsert(ctx context.Context, chunks []models.Chunk) error
	// Search returns at most topK entries ranked by descending similarity to
	// the query vector.
	Search(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error)
}

// New builds the configured store implementation.
func New(cfg *config.StoreConfig, dimensions int) (Store, error) {
	switch cfg.Type {
	case "chromem", "":
		return NewChromemStore(cfg.Path, cfg.Collection)
	case "postgres":
		return NewPostgresStore(cfg, dimensions)
	case "memory":
		return NewMemoryStore(dimensions), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
