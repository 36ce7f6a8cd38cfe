package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
	"github.com/clauselens/clauselens/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQdrantClient returns the process-wide Qdrant client, creating it on
// first call and closing it when ctx is cancelled. Returns nil on failure.
func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{QObj: qdrantInstance}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil
	}

	if err := healthCheckWithRetry(context.Background(), client); err != nil {
		logger.Error("qdrant unreachable", "error", err)
		return nil
	}

	return client
}

func healthCheckWithRetry(ctx context.Context, client *qdrant.Client) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		_, err := client.HealthCheck(ctx)
		return err
	}
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

// EnsureCollection creates the per-document collection if missing.
func (db *ClientHolder) EnsureCollection(ctx context.Context, collection string) error {
	if collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// UpsertClauses writes one point per clause, keyed by clause number. A
// rebuild on the same document therefore overwrites the previous index.
func (db *ClientHolder) UpsertClauses(ctx context.Context, collection string, clauses []commonModels.Clause, vectors [][]float32) error {
	if len(clauses) != len(vectors) {
		return fmt.Errorf("mismatch: got %d clauses but %d vectors", len(clauses), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(clauses))
	for i, clause := range clauses {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(clause.ClauseNo)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":      clause.Text,
				"clause_no": clause.ClauseNo,
				"category":  clause.Category,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Query returns the k nearest clauses. A missing collection maps to
// vectorDB.ErrIndexNotFound so callers can decide how hard to fail.
func (db *ClientHolder) Query(ctx context.Context, collection string, vector []float32, k uint64) ([]vectorDB.ScoredClause, error) {
	exists, err := db.QObj.CollectionExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, vectorDB.ErrIndexNotFound
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(k),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	hits := make([]vectorDB.ScoredClause, 0, len(result))
	for _, hit := range result {
		hits = append(hits, vectorDB.ScoredClause{
			Clause: commonModels.Clause{
				ClauseNo: int(hit.Payload["clause_no"].GetIntegerValue()),
				Category: hit.Payload["category"].GetStringValue(),
				Text:     hit.Payload["text"].GetStringValue(),
			},
			Score: hit.Score,
		})
	}
	return hits, nil
}
