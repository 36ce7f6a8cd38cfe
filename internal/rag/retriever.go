package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/internal/rag/embedding"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// Retriever is the per-document retrieval index: built once per analysis
// job, queried many times during summarization and chat.
//
// Retrieve is best-effort - a missing index yields empty results so clause
// summarization can proceed without the enhancement. RetrieveStrict is for
// callers that cannot answer without retrieval (chat).
type Retriever interface {
	Index(ctx context.Context, documentId string, clauses []commonModels.Clause) error
	Retrieve(ctx context.Context, documentId, query string, k int) []vectorDB.ScoredClause
	RetrieveStrict(ctx context.Context, documentId, query string, k int) ([]vectorDB.ScoredClause, error)
}

type retriever struct {
	index    vectorDB.ClauseIndex
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

// NewRetriever constructor.
func NewRetriever(index vectorDB.ClauseIndex, embedder embedding.Embedder) Retriever {
	return &retriever{
		index:    index,
		embedder: embedder,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

// CollectionFor maps a document id onto its qdrant collection name.
func CollectionFor(documentId string) string {
	return config.DocCollectionPrefix + documentId
}

func (r *retriever) Index(ctx context.Context, documentId string, clauses []commonModels.Clause) error {
	if len(clauses) == 0 {
		return errors.New("no clauses to index")
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval_index", time.Since(start)) }()

	collection := CollectionFor(documentId)
	if err := r.index.EnsureCollection(ctx, collection); err != nil {
		return fmt.Errorf("ensuring collection %s: %w", collection, err)
	}

	texts := make([]string, len(clauses))
	for i, c := range clauses {
		texts[i] = c.Text
	}

	vectors, err := r.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d clauses: %w", len(clauses), err)
	}

	if err := r.index.UpsertClauses(ctx, collection, clauses, vectors); err != nil {
		return err
	}
	r.logger.Debug("indexed clauses", "document", documentId, "count", len(clauses))
	return nil
}

func (r *retriever) Retrieve(ctx context.Context, documentId, query string, k int) []vectorDB.ScoredClause {
	hits, err := r.RetrieveStrict(ctx, documentId, query, k)
	if err != nil {
		// Best-effort path: retrieval is an enhancement here, not a dependency.
		if !errors.Is(err, vectorDB.ErrIndexNotFound) {
			r.logger.Warn("retrieval lookup failed, continuing without context", "document", documentId, "error", err)
		}
		return nil
	}
	return hits
}

func (r *retriever) RetrieveStrict(ctx context.Context, documentId, query string, k int) ([]vectorDB.ScoredClause, error) {
	if k <= 0 {
		k = config.RetrievalTopK
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval_query", time.Since(start)) }()

	vector, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.index.Query(ctx, CollectionFor(documentId), vector, uint64(k))
}
