package store

import (
	"context"
	"sync"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/metrics"
)

type InMemoryClauseCache struct {
	mu      *sync.RWMutex
	entries map[string][]commonModels.Clause
}

func InitInMemoryClauseCache() *InMemoryClauseCache {
	return &InMemoryClauseCache{
		mu:      new(sync.RWMutex),
		entries: make(map[string][]commonModels.Clause),
	}
}

func (c *InMemoryClauseCache) Get(ctx context.Context, contentHash string) ([]commonModels.Clause, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clauses, found := c.entries[contentHash]
	metrics.RecordClauseCacheLookup(found)
	return clauses, found
}

func (c *InMemoryClauseCache) Put(ctx context.Context, contentHash string, clauses []commonModels.Clause) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[contentHash] = clauses
	return nil
}
