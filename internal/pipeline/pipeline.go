// Package pipeline orchestrates ingestion: extract, chunk, embed, stage,
// upsert. Per-document and per-chunk failures are logged and counted; they
// never abort the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"docindex/internal/chunker"
	"docindex/internal/embedding"
	"docindex/internal/index"
	"docindex/internal/models"
	"docindex/internal/parser"
	"docindex/internal/staging"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Documents    atomic.Int64 // documents fully processed
	SkippedDocs  atomic.Int64 // documents skipped (not found / unsupported)
	FailedDocs   atomic.Int64 // documents that failed mid-processing
	Chunks       atomic.Int64 // chunks embedded and written
	FailedChunks atomic.Int64 // chunks whose embedding or upsert failed
	Overflows    atomic.Int64 // sections rejected for exceeding the ceiling
}

type Pipeline struct {
	registry *parser.Registry
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	store    index.Store
	staging  *staging.Store
	workers  int
	dryRun   bool
}

func New(registry *parser.Registry, ch *chunker.Chunker, embedder embedding.Embedder, store index.Store, stage *staging.Store, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		registry: registry,
		chunker:  ch,
		embedder: embedder,
		store:    store,
		staging:  stage,
		workers:  workers,
	}
}

// SetDryRun stages chunks without upserting them into the index.
func (p *Pipeline) SetDryRun(dryRun bool) { p.dryRun = dryRun }

// IngestDir processes every regular file in dir with a bounded worker pool.
// Document failures are isolated; the only error returned is cancellation.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			// cancellation is honoured at document boundaries
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.ingestFile(ctx, path, stats); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// already logged and counted; keep siblings running
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	log.Info().
		Int64("documents", stats.Documents.Load()).
		Int64("skipped_docs", stats.SkippedDocs.Load()).
		Int64("failed_docs", stats.FailedDocs.Load()).
		Int64("chunks", stats.Chunks.Load()).
		Int64("failed_chunks", stats.FailedChunks.Load()).
		Int64("overflows", stats.Overflows.Load()).
		Msg("Ingestion run finished")
	return stats, nil
}

// IngestFile processes a single document.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Stats, error) {
	stats := &Stats{}
	err := p.ingestFile(ctx, path, stats)
	return stats, err
}

func (p *Pipeline) ingestFile(ctx context.Context, path string, stats *Stats) error {
	title := documentTitle(path)
	logger := log.With().Str("document", title).Logger()

	sections, err := p.registry.Extract(path)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrNotFound), errors.Is(err, parser.ErrUnsupportedFormat):
			stats.SkippedDocs.Add(1)
			logger.Warn().Err(err).Msg("Skipping document")
		default:
			stats.FailedDocs.Add(1)
			logger.Error().Err(err).Msg("Extraction failed")
		}
		return err
	}

	candidates, overflows := p.chunker.ChunkDocument(title, sections)
	stats.Overflows.Add(int64(len(overflows)))

	var failed int64
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processCandidate(ctx, cand); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			failed++
			stats.FailedChunks.Add(1)
			logger.Error().Err(err).Int("chunk_index", cand.Ordinal).Msg("Chunk failed")
			continue
		}
		stats.Chunks.Add(1)
	}

	if failed > 0 {
		stats.FailedDocs.Add(1)
		return fmt.Errorf("document %s: %d chunks failed", title, failed)
	}
	stats.Documents.Add(1)
	logger.Debug().Int("chunks", len(candidates)).Int("overflows", len(overflows)).Msg("Document ingested")
	return nil
}

func (p *Pipeline) processCandidate(ctx context.Context, cand chunker.Candidate) error {
	vector, err := p.embedder.Embed(ctx, cand.Content)
	if err != nil {
		return fmt.Errorf("embed chunk: %w", err)
	}

	chunk := models.Chunk{
		ID:         ChunkID(cand.PageTitle, cand.Ordinal, cand.Content),
		PageTitle:  cand.PageTitle,
		ChunkTitle: cand.Title,
		Content:    cand.Content,
		Vector:     vector,
	}

	if p.staging != nil {
		if _, err := p.staging.Write(chunk, cand.Seq); err != nil {
			return err
		}
	}
	if p.dryRun {
		return nil
	}
	if err := p.store.Upsert(ctx, []models.Chunk{chunk}); err != nil {
		return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Replay re-upserts every staged chunk without calling the embedding service.
func (p *Pipeline) Replay(ctx context.Context) (int, error) {
	if p.staging == nil {
		return 0, errors.New("no staging store configured")
	}
	chunks, err := p.staging.Load()
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := p.store.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("replay upsert: %w", err)
	}
	log.Info().Int("chunks", len(chunks)).Msg("Replayed staged chunks")
	return len(chunks), nil
}

func documentTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
