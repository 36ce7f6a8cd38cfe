package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/data/redisStore"
	"github.com/clauselens/clauselens/internal/data/store"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/redis/go-redis/v9"
)

func newTestClauseCache(t *testing.T) *store.RedisClauseCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestClauseCache(redisStore.NewTestStore(client))
}

func TestRedisClauseCache_Roundtrip(t *testing.T) {
	cache := newTestClauseCache(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	clauses := []commonModels.Clause{
		{ClauseNo: 1, Category: "Termination", Text: "Either party may terminate with 30 days notice."},
		{ClauseNo: 2, Category: "Governing Law", Text: "This agreement is governed by Delaware law."},
	}

	if _, found := cache.Get(ctx, "hash-a"); found {
		t.Fatal("expected miss before Put")
	}

	if err := cache.Put(ctx, "hash-a", clauses); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found := cache.Get(ctx, "hash-a")
	if !found {
		t.Fatal("expected hit after Put")
	}
	if len(got) != 2 || got[0].Category != "Termination" || got[1].ClauseNo != 2 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestRedisClauseCache_LastWriteWins(t *testing.T) {
	cache := newTestClauseCache(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	first := []commonModels.Clause{{ClauseNo: 1, Category: "Other", Text: "Stale classification."}}
	second := []commonModels.Clause{{ClauseNo: 1, Category: "Indemnification", Text: "Stale classification."}}

	if err := cache.Put(ctx, "hash-b", first); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := cache.Put(ctx, "hash-b", second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, found := cache.Get(ctx, "hash-b")
	if !found {
		t.Fatal("expected hit")
	}
	if got[0].Category != "Indemnification" {
		t.Errorf("expected the later write to win, got category %q", got[0].Category)
	}
}
