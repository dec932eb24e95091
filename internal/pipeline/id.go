package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
)

// chunkNamespace scopes chunk IDs so they cannot collide with UUIDs minted
// elsewhere.
var chunkNamespace = uuid.MustParse("56c2d7f4-8f1e-4b8a-9a63-38f0f6f2d1c1")

// ChunkID derives a deterministic identifier from the document title, the
// chunk's ordinal position and a fingerprint of its normalized content.
// Re-ingesting identical input yields identical IDs, so the index upsert
// replaces entries instead of duplicating them.
func ChunkID(pageTitle string, ordinal int, content string) string {
	fingerprint := sha256.Sum256([]byte(content))
	name := fmt.Sprintf("%s#%d#%x", pageTitle, ordinal, fingerprint)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
