package vectorDB

import (
	"context"
	"errors"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
)

// ErrIndexNotFound is returned by Query when the per-document collection has
// not been built yet. Best-effort callers convert it to empty results; chat
// (where retrieval is mandatory) surfaces it.
var ErrIndexNotFound = errors.New("retrieval index not found for document")

// ScoredClause is one nearest-neighbor hit from the index.
type ScoredClause struct {
	Clause commonModels.Clause
	Score  float32
}

// ClauseIndex is the vector-store contract for per-document clause indexes.
// Point ids are the clause numbers, so re-indexing a document overwrites the
// previous build in place - indexes are not versioned.
type ClauseIndex interface {
	UpsertClauses(ctx context.Context, collection string, clauses []commonModels.Clause, vectors [][]float32) error
	Query(ctx context.Context, collection string, vector []float32, k uint64) ([]ScoredClause, error)
	EnsureCollection(ctx context.Context, collection string) error
}
