// Package staging persists each accepted chunk as one JSON file so the
// expensive ingestion step (embedding) and the cheap indexing step (upload)
// can be decoupled and replayed independently.
package staging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"docindex/internal/models"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// filesystem-reserved characters that must not reach a filename
var nameSanitizer = strings.NewReplacer(
	"?", "", ":", "", "'", "", "|", "", "/", "", "\\", "",
)

// SanitizeName strips characters that are invalid in filenames on common
// filesystems.
func SanitizeName(s string) string {
	return nameSanitizer.Replace(s)
}

// Write serializes a chunk to <seq>-<page title>.json and returns the path.
func (s *Store) Write(chunk models.Chunk, seq uint64) (string, error) {
	name := fmt.Sprintf("%06d-%s.json", seq, SanitizeName(chunk.PageTitle))
	path := filepath.Join(s.dir, name)
	data, err := json.MarshalIndent(chunk, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal chunk %s: %w", chunk.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write staging file: %w", err)
	}
	return path, nil
}

// Load reads every staged chunk back, in filename order. Unreadable files
// are logged and skipped so one bad artifact does not block a replay.
func (s *Store) Load() ([]models.Chunk, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read staging dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var chunks []models.Chunk
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping unreadable staging file")
			continue
		}
		var chunk models.Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping malformed staging file")
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
