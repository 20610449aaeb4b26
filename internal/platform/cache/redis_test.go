package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := NewRedisStore(rdb, "disclosure")
		mock.ExpectGet("disclosure:stmts:00126380:2024:CFS").SetVal("payload")

		payload, ok, err := store.Get(ctx, "stmts:00126380:2024:CFS")
		if err != nil || !ok {
			t.Fatalf("get failed: ok=%v err=%v", ok, err)
		}
		if string(payload) != "payload" {
			t.Errorf("payload mismatch: got %q", payload)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("miss maps redis.Nil to ok=false", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := NewRedisStore(rdb, "disclosure")
		mock.ExpectGet("disclosure:missing").RedisNil()

		_, ok, err := store.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("miss should not error: %v", err)
		}
		if ok {
			t.Error("miss reported as a hit")
		}
	})
}

func TestRedisStore_Set(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "disclosure")

	mock.ExpectSet("disclosure:k", []byte("v"), time.Minute).SetVal("OK")
	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// non-positive TTL falls back to the default
	mock.ExpectSet("disclosure:k", []byte("v"), DefaultTTL).SetVal("OK")
	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set with zero ttl failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStore_Invalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "disclosure")

	mock.ExpectDel("disclosure:k").SetVal(1)
	if err := store.Invalidate(context.Background(), "k"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "disclosure")

	mock.ExpectScan(0, "disclosure:*", 200).SetVal([]string{"disclosure:a", "disclosure:b"}, 0)
	mock.ExpectDel("disclosure:a", "disclosure:b").SetVal(2)

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestNewRedisStore_DefaultNamespace(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	store := NewRedisStore(rdb, "")
	if store.namespace != "disclosure" {
		t.Errorf("namespace mismatch: got %q", store.namespace)
	}
}
