package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// Запросы, отличающиеся регистром и пробелами, попадают в один ключ
func TestKey_Normalized(t *testing.T) {
	c := NewSearchCacheWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "", time.Minute)
	defer c.Close()

	a := c.key("  Bitcoin   Cash ")
	b := c.key("bitcoin cash")
	if a != b || a != "cms:search:bitcoin cash" {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func newTestCache(t *testing.T) (*SearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewSearchCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetIDs_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	ids, ok, err := c.GetIDs(context.Background(), "btc")
	if err != nil || ok || ids != nil {
		t.Fatalf("miss: ids=%v ok=%v err=%v", ids, ok, err)
	}
}

// Сохранённые кандидаты читаются по нормализованному запросу и живут TTL
func TestSetIDs_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetIDs(ctx, "Bitcoin", []string{"bitcoin", "bitcoin-cash"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	ids, ok, err := c.GetIDs(ctx, "  bitcoin ")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(ids) != 2 || ids[0] != "bitcoin" || ids[1] != "bitcoin-cash" {
		t.Fatalf("ids = %v", ids)
	}
	if ttl := mr.TTL("cms:search:bitcoin"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.GetIDs(ctx, "bitcoin"); ok {
		t.Fatalf("expired key must be a miss")
	}
}

// Пустой список кандидатов тоже попадание
func TestSetIDs_EmptyIsHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetIDs(ctx, "zzz", nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	ids, ok, err := c.GetIDs(ctx, "zzz")
	if err != nil || !ok || len(ids) != 0 {
		t.Fatalf("ids=%v ok=%v err=%v", ids, ok, err)
	}
}

func TestGetIDs_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set("cms:search:eth", "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok, err := c.GetIDs(context.Background(), "eth"); err == nil || ok {
		t.Fatalf("expected decode error, ok=%v err=%v", ok, err)
	}
}

// Недоступный сервер - ошибка, а не промах
func TestCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	ctx := context.Background()

	if _, ok, err := c.GetIDs(ctx, "btc"); err == nil || ok {
		t.Fatalf("get: expected error, ok=%v err=%v", ok, err)
	}
	if err := c.SetIDs(ctx, "btc", []string{"bitcoin"}); err == nil {
		t.Fatalf("set: expected error")
	}
}
