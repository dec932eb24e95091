package models

// Chunk is the atomic unit of indexing: a token-bounded slice of a document
// paired with its embedding vector.
type Chunk struct {
	ID         string    `json:"id"`
	PageTitle  string    `json:"page_title"`
	ChunkTitle string    `json:"chunk_title"`
	Content    string    `json:"chunk_content"`
	Vector     []float32 `json:"vector"`
}

// SearchResult is a chunk returned from a similarity search with its score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Answer is the result of a grounded generation call.
type Answer struct {
	Query   string
	Sources []SearchResult
	Content string
}
