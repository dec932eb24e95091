package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docindex/internal/chunker"
	"docindex/internal/config"
	"docindex/internal/embedding"
	"docindex/internal/index"
	"docindex/internal/llmservice"
	"docindex/internal/parser"
	"docindex/internal/pipeline"
	"docindex/internal/rag"
	"docindex/internal/staging"
	"docindex/internal/token"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	dir := flag.String("dir", "", "Ingest every document in a directory")
	file := flag.String("file", "", "Ingest a single document")
	query := flag.String("query", "", "Ask a grounded question")
	search := flag.String("search", "", "Vector search only, print the top-k chunks")
	replay := flag.Bool("replay", false, "Re-upsert staged chunks without re-embedding")
	dryRun := flag.Bool("dry-run", false, "Stage chunks without writing to the index")
	topK := flag.Int("k", 0, "Number of chunks to retrieve (default from config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *dir != "" || *file != "":
		ingest(ctx, cfg, *dir, *file, *dryRun)
	case *replay:
		replayStaged(ctx, cfg)
	case *search != "":
		runSearch(ctx, cfg, *search, *topK)
	case *query != "":
		runQuery(ctx, cfg, *query)
	default:
		log.Fatal().Msg("Provide one of -dir, -file, -query, -search or -replay")
	}
}

func newStore(cfg *config.Config) index.Store {
	store, err := index.New(&cfg.Store, cfg.EmbedLLM.Dimensions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening index store")
	}
	return store
}

func newEmbeddingClient(cfg *config.Config) *embedding.Client {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	return embedding.NewClient(embedder, &cfg.EmbedLLM)
}

func ingest(ctx context.Context, cfg *config.Config, dir, file string, dryRun bool) {
	counter, err := token.NewCounter(token.DefaultEncoding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing tokenizer")
	}
	policy, ok := chunker.ParsePolicy(cfg.Ingest.OverflowPolicy)
	if !ok {
		log.Fatal().Str("policy", cfg.Ingest.OverflowPolicy).Msg("Unknown overflow policy")
	}

	stage, err := staging.New(cfg.Ingest.StagingDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating staging dir")
	}

	p := pipeline.New(
		parser.NewRegistry(),
		chunker.New(counter, cfg.Ingest.MaxInputTokens, policy),
		newEmbeddingClient(cfg),
		newStore(cfg),
		stage,
		cfg.Ingest.Workers,
	)
	p.SetDryRun(dryRun)

	if file != "" {
		if _, err := p.IngestFile(ctx, file); err != nil {
			log.Fatal().Err(err).Msg("Error ingesting document")
		}
		return
	}
	if _, err := p.IngestDir(ctx, dir); err != nil {
		log.Fatal().Err(err).Msg("Ingestion interrupted")
	}
}

func replayStaged(ctx context.Context, cfg *config.Config) {
	stage, err := staging.New(cfg.Ingest.StagingDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening staging dir")
	}
	p := pipeline.New(parser.NewRegistry(), nil, nil, newStore(cfg), stage, 1)
	n, err := p.Replay(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error replaying staged chunks")
	}
	log.Info().Int("chunks", n).Msg("Replay complete")
}

func runSearch(ctx context.Context, cfg *config.Config, query string, topK int) {
	r := rag.New(newEmbeddingClient(cfg), newStore(cfg), nil, cfg)
	results, err := r.Search(ctx, query, topK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching")
	}
	for _, res := range results {
		fmt.Printf("%.4f  %s / %s\n%s\n\n", res.Score, res.Chunk.PageTitle, res.Chunk.ChunkTitle, res.Chunk.Content)
	}
}

func runQuery(ctx context.Context, cfg *config.Config, query string) {
	llm, err := llmservice.New(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat model")
	}
	r := rag.New(newEmbeddingClient(cfg), newStore(cfg), llm, cfg)
	answer, err := r.Answer(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Sources:")
	for _, src := range answer.Sources {
		fmt.Printf("%.4f  %s / %s\n", src.Score, src.Chunk.PageTitle, src.Chunk.ChunkTitle)
	}
	fmt.Printf("\n%s\n", answer.Content)
}
