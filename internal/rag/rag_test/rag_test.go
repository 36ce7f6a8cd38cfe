package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/rag"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
)

func testClauses() []commonModels.Clause {
	return []commonModels.Clause{
		{ClauseNo: 1, Text: "The Employee shall not disclose confidential information.", Category: "Confidentiality"},
		{ClauseNo: 2, Text: "Either party may terminate with 30 days written notice.", Category: "Termination"},
	}
}

func TestRetriever_Index(t *testing.T) {
	t.Run("Builds per-document collection", func(t *testing.T) {
		var gotCollection string
		var gotTexts []string
		var upserted int

		index := &MockClauseIndex{
			OnEnsureCollection: func(ctx context.Context, collection string) error {
				gotCollection = collection
				return nil
			},
			OnUpsertClauses: func(ctx context.Context, collection string, clauses []commonModels.Clause, vectors [][]float32) error {
				if collection != gotCollection {
					t.Errorf("upsert collection %q does not match ensured collection %q", collection, gotCollection)
				}
				if len(vectors) != len(clauses) {
					t.Errorf("got %d vectors for %d clauses", len(vectors), len(clauses))
				}
				upserted = len(clauses)
				return nil
			},
		}
		embedder := &MockEmbedder{
			OnBatchEmbedding: func(ctx context.Context, texts []string) ([][]float32, error) {
				gotTexts = texts
				return make([][]float32, len(texts)), nil
			},
		}

		r := rag.NewRetriever(index, embedder)
		if err := r.Index(context.Background(), "abc123", testClauses()); err != nil {
			t.Fatalf("Index failed: %v", err)
		}

		if !strings.HasPrefix(gotCollection, config.DocCollectionPrefix) {
			t.Errorf("collection %q missing prefix %q", gotCollection, config.DocCollectionPrefix)
		}
		if !strings.HasSuffix(gotCollection, "abc123") {
			t.Errorf("collection %q not derived from document id", gotCollection)
		}
		if len(gotTexts) != 2 || gotTexts[1] != testClauses()[1].Text {
			t.Errorf("embedded texts do not match clause texts: %v", gotTexts)
		}
		if upserted != 2 {
			t.Errorf("expected 2 clauses upserted, got %d", upserted)
		}
	})

	t.Run("Rejects empty clause set", func(t *testing.T) {
		r := rag.NewRetriever(&MockClauseIndex{}, &MockEmbedder{})
		if err := r.Index(context.Background(), "abc123", nil); err == nil {
			t.Fatal("expected error for empty clause set")
		}
	})

	t.Run("Propagates embedding failure", func(t *testing.T) {
		embedder := &MockEmbedder{
			OnBatchEmbedding: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, errors.New("api limit")
			},
		}
		r := rag.NewRetriever(&MockClauseIndex{}, embedder)
		err := r.Index(context.Background(), "abc123", testClauses())
		if err == nil || !strings.Contains(err.Error(), "api limit") {
			t.Fatalf("expected wrapped embedding error, got %v", err)
		}
	})
}

func TestRetriever_Retrieve(t *testing.T) {
	t.Run("Missing index is best-effort empty", func(t *testing.T) {
		index := &MockClauseIndex{
			OnQuery: func(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error) {
				return nil, vectorDB.ErrIndexNotFound
			},
		}
		r := rag.NewRetriever(index, &MockEmbedder{})

		hits := r.Retrieve(context.Background(), "missing", "termination", 3)
		if hits != nil {
			t.Errorf("expected nil hits for missing index, got %v", hits)
		}
	})

	t.Run("Strict retrieval surfaces missing index", func(t *testing.T) {
		index := &MockClauseIndex{
			OnQuery: func(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error) {
				return nil, vectorDB.ErrIndexNotFound
			},
		}
		r := rag.NewRetriever(index, &MockEmbedder{})

		_, err := r.RetrieveStrict(context.Background(), "missing", "termination", 3)
		if !errors.Is(err, vectorDB.ErrIndexNotFound) {
			t.Fatalf("expected ErrIndexNotFound, got %v", err)
		}
	})

	t.Run("Defaults k when non-positive", func(t *testing.T) {
		var gotK uint64
		index := &MockClauseIndex{
			OnQuery: func(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error) {
				gotK = k
				return []vectorDB.ScoredClause{{Clause: testClauses()[0], Score: 0.9}}, nil
			},
		}
		r := rag.NewRetriever(index, &MockEmbedder{})

		hits := r.Retrieve(context.Background(), "abc123", "confidentiality", 0)
		if gotK != uint64(config.RetrievalTopK) {
			t.Errorf("expected default k %d, got %d", config.RetrievalTopK, gotK)
		}
		if len(hits) != 1 || hits[0].Clause.ClauseNo != 1 {
			t.Errorf("unexpected hits: %v", hits)
		}
	})

	t.Run("Strict retrieval propagates query embedding failure", func(t *testing.T) {
		embedder := &MockEmbedder{
			OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		r := rag.NewRetriever(&MockClauseIndex{}, embedder)

		_, err := r.RetrieveStrict(context.Background(), "abc123", "termination", 3)
		if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
			t.Fatalf("expected wrapped embedding error, got %v", err)
		}
	})
}
