package rag_test

import (
	"context"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
)

// MockClauseIndex implements vectorDB.ClauseIndex
type MockClauseIndex struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context, collection string) error
	OnUpsertClauses    func(ctx context.Context, collection string, clauses []commonModels.Clause, vectors [][]float32) error
	OnQuery            func(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error)
}

func (m *MockClauseIndex) EnsureCollection(ctx context.Context, collection string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, collection)
	}
	return nil
}

func (m *MockClauseIndex) UpsertClauses(ctx context.Context, collection string, clauses []commonModels.Clause, vectors [][]float32) error {
	if m.OnUpsertClauses != nil {
		return m.OnUpsertClauses(ctx, collection, clauses, vectors)
	}
	return nil
}

func (m *MockClauseIndex) Query(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, collection, vector, k)
	}
	return nil, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	// Dummy vectors matching input size
	return make([][]float32, len(texts)), nil
}
