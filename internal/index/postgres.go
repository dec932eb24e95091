package index

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"docindex/internal/config"
	"docindex/internal/models"
)

// chunkRow is the pgvector-backed table row. The vector column is written as
// a pgvector literal string so the driver does not need a custom codec; its
// column type is declared in chunkTableDDL because the dimension is
// configuration, not schema known at compile time.
type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            string  `bun:"id,pk"`
	PageTitle     string  `bun:"page_title,notnull"`
	ChunkTitle    string  `bun:"chunk_title"`
	Content       string  `bun:"chunk_content,notnull"`
	Vector        string  `bun:"vector,notnull"`
	Score         float32 `bun:"score,scanonly"`
}

// PostgresStore keeps chunks in a pgvector table, upserted by ID.
type PostgresStore struct {
	db         *bun.DB
	dimensions int
}

func NewPostgresStore(cfg *config.StoreConfig, dimensions int) (*PostgresStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("postgres store: invalid vector dimensions %d", dimensions)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	s := &PostgresStore{db: db, dimensions: dimensions}
	if err := s.init(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func chunkTableDDL(dimensions int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
	id text PRIMARY KEY,
	page_title text NOT NULL,
	chunk_title text,
	chunk_content text NOT NULL,
	vector vector(%d) NOT NULL
)`, dimensions)
}

func (s *PostgresStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, chunkTableDDL(s.dimensions)); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]chunkRow, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Vector) != s.dimensions {
			return fmt.Errorf("chunk %s: vector dimension %d, want %d", c.ID, len(c.Vector), s.dimensions)
		}
		rows = append(rows, chunkRow{
			ID:         c.ID,
			PageTitle:  c.PageTitle,
			ChunkTitle: c.ChunkTitle,
			Content:    c.Content,
			Vector:     vectorLiteral(c.Vector),
		})
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("page_title = EXCLUDED.page_title").
		Set("chunk_title = EXCLUDED.chunk_title").
		Set("chunk_content = EXCLUDED.chunk_content").
		Set("vector = EXCLUDED.vector").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error) {
	lit := vectorLiteral(vector)
	var rows []chunkRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("id", "page_title", "chunk_title", "chunk_content").
		ColumnExpr("1 - (vector <=> ?::vector) AS score", lit).
		OrderExpr("vector <=> ?::vector", lit).
		Limit(topK).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	out := make([]models.SearchResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.SearchResult{
			Chunk: models.Chunk{
				ID:         r.ID,
				PageTitle:  r.PageTitle,
				ChunkTitle: r.ChunkTitle,
				Content:    r.Content,
			},
			Score: r.Score,
		})
	}
	return out, nil
}

func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
