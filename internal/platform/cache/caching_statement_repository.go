package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"disclosure_backend/internal/feature/statements/domain/entity"
)

// StatementRepository is the repository surface the decorator wraps. The
// GORM adapter in feature/statements satisfies it.
type StatementRepository interface {
	UpsertBatch(ctx context.Context, stmts []entity.Statement) error
	ListByYear(ctx context.Context, corpCode string, year int, fsDiv string) ([]entity.Statement, error)
	Years(ctx context.Context, corpCode string) ([]int, error)
}

// CachingStatementRepository decorates a StatementRepository with a TTL
// Store. Caching is transparent and best effort: a broken cache never
// fails the underlying read or write.
type CachingStatementRepository struct {
	inner StatementRepository
	store Store
	ttl   time.Duration
}

var _ StatementRepository = (*CachingStatementRepository)(nil)

// NewCachingStatementRepository decorates inner with store. A non-positive
// ttl defaults to DefaultTTL; a nil store disables caching.
func NewCachingStatementRepository(store Store, ttl time.Duration, inner StatementRepository) *CachingStatementRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachingStatementRepository{inner: inner, store: store, ttl: ttl}
}

// UpsertBatch writes through to the inner repository and invalidates the
// cache entries covering the affected (corp, year) slices.
func (c *CachingStatementRepository) UpsertBatch(ctx context.Context, stmts []entity.Statement) error {
	if err := c.inner.UpsertBatch(ctx, stmts); err != nil {
		return err
	}
	if c.store == nil || len(stmts) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, s := range stmts {
		for _, key := range []string{
			listKey(s.CorpCode, s.BsnsYear, s.FsDiv),
			yearsKey(s.CorpCode),
		} {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if err := c.store.Invalidate(ctx, key); err != nil {
				slog.Warn("cache invalidation failed", "key", key, "error", err)
			}
		}
	}
	return nil
}

// ListByYear reads cache-first and falls back to the inner repository.
func (c *CachingStatementRepository) ListByYear(ctx context.Context, corpCode string, year int, fsDiv string) ([]entity.Statement, error) {
	if c.store == nil {
		return c.inner.ListByYear(ctx, corpCode, year, fsDiv)
	}

	key := listKey(corpCode, year, fsDiv)
	if b, ok, err := c.store.Get(ctx, key); err == nil && ok {
		var out []entity.Statement
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Drop the corrupted entry and fall through to the database.
		_ = c.store.Invalidate(ctx, key)
	}

	out, err := c.inner.ListByYear(ctx, corpCode, year, fsDiv)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.store.Set(ctx, key, b, c.ttl)
	}
	return out, nil
}

// Years reads the distinct-year index cache-first.
func (c *CachingStatementRepository) Years(ctx context.Context, corpCode string) ([]int, error) {
	if c.store == nil {
		return c.inner.Years(ctx, corpCode)
	}

	key := yearsKey(corpCode)
	if b, ok, err := c.store.Get(ctx, key); err == nil && ok {
		var out []int
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.store.Invalidate(ctx, key)
	}

	out, err := c.inner.Years(ctx, corpCode)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.store.Set(ctx, key, b, c.ttl)
	}
	return out, nil
}

func listKey(corpCode string, year int, fsDiv string) string {
	return Fingerprint("stmts", corpCode, strconv.Itoa(year), fsDiv)
}

func yearsKey(corpCode string) string {
	return Fingerprint("stmtyears", corpCode)
}
