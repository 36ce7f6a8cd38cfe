package store

import (
	"context"
	"encoding/json"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/data/redisStore"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// RedisClauseCache keys classified clause lists by document content hash.
// Entries never expire: identical bytes always classify identically, so a
// hit is valid forever. Put is last-write-wins.
type RedisClauseCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisClauseCache(ctx context.Context) *RedisClauseCache {
	backing := redisStore.GetRedisStore(ctx, config.RedisClauseCache)
	if backing == nil {
		return nil
	}
	return &RedisClauseCache{
		store:  backing,
		logger: logger_i.NewLogger("ClauseCache"),
	}
}

func (c *RedisClauseCache) Get(ctx context.Context, contentHash string) ([]commonModels.Clause, bool) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "hash", contentHash)

	val, err := c.store.Get(ctx, contentHash)
	if c.store.IsNil(err) {
		metrics.RecordClauseCacheLookup(false)
		return nil, false
	} else if err != nil {
		log.Error("clause cache lookup failed", "error", err)
		metrics.RecordClauseCacheLookup(false)
		return nil, false
	}

	var clauses []commonModels.Clause
	if err := json.Unmarshal([]byte(val), &clauses); err != nil {
		log.Error("corrupt clause cache entry", "error", err)
		metrics.RecordClauseCacheLookup(false)
		return nil, false
	}

	log.Debug("clause cache hit", "clauses", len(clauses))
	metrics.RecordClauseCacheLookup(true)
	return clauses, true
}

func (c *RedisClauseCache) Put(ctx context.Context, contentHash string, clauses []commonModels.Clause) error {
	data, err := json.Marshal(clauses)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, contentHash, data, config.NoExpiry)
}

func TestClauseCache(store *redisStore.Store) *RedisClauseCache {
	return &RedisClauseCache{
		store:  store,
		logger: logger_i.NewLogger("test clause cache"),
	}
}
