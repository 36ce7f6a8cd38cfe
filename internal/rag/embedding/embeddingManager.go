package embedding

import "context"

// Embedder turns text into vectors for the retrieval index. Loaded once at
// process start and injected into the pipeline.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
