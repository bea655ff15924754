// Package embeddings defines the embedder contract that backs the
// provider contract's optional embed() call: turning archival chunk text
// into vectors for storage alongside the chunk.
package embeddings

import "context"

// Provider turns a batch of texts into one vector per text. Implementers
// also satisfy providers.Embedder so an Agent's configured embedder can be
// used directly for archival_insert.
type Provider interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
