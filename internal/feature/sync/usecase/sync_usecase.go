package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync/atomic"
	"time"

	corpentity "disclosure_backend/internal/feature/corporations/domain/entity"
	stmtentity "disclosure_backend/internal/feature/statements/domain/entity"
	"disclosure_backend/internal/feature/sync/domain"
	"disclosure_backend/internal/feature/sync/domain/entity"
	"disclosure_backend/internal/platform/cache"
	"disclosure_backend/internal/shared/ratelimiter"
)

// DisclosureRegistry fetches disclosure data from the remote registry.
// Interface is defined by the consumer (usecase), not the provider (adapters).
type DisclosureRegistry interface {
	ListCorporations(ctx context.Context, corpCls string) ([]corpentity.Corporation, error)
	FetchStatements(ctx context.Context, corpCode string, year int, reprtCode string) ([]stmtentity.Statement, error)
}

// CorporationWriter persists corporation master data.
type CorporationWriter interface {
	UpsertBatch(ctx context.Context, corps []corpentity.Corporation) error
}

// StatementWriter persists financial statement rows.
type StatementWriter interface {
	UpsertBatch(ctx context.Context, stmts []stmtentity.Statement) error
}

// SyncLogRepository records the append-only outcome log of sync runs.
type SyncLogRepository interface {
	Append(ctx context.Context, e entity.SyncLogEntry) error
	Recent(ctx context.Context, limit int) ([]entity.SyncLogEntry, error)
	ByCorp(ctx context.Context, corpCode string) ([]entity.SyncLogEntry, error)
}

// Config tunes the retry and caching behavior of the engine.
type Config struct {
	MaxAttempts int           // per-unit attempt budget, including the first try
	BackoffBase time.Duration // first retry delay, doubled per attempt
	BackoffMax  time.Duration // upper bound on a single delay
	CacheTTL    time.Duration // freshness window for remote responses
	ReportCode  string        // report period fetched per unit
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BackoffBase: 500 * time.Millisecond,
		BackoffMax:  30 * time.Second,
		CacheTTL:    cache.DefaultTTL,
		ReportCode:  stmtentity.ReportAnnual,
	}
}

// SyncEngine pulls corporation and statement data from the remote registry
// into the persistent store. At most one run can be active per engine; a
// concurrent start fails fast with domain.ErrSyncInProgress.
type SyncEngine struct {
	registry DisclosureRegistry
	corps    CorporationWriter
	stmts    StatementWriter
	logs     SyncLogRepository
	limiter  ratelimiter.Waiter
	store    cache.Store
	cfg      Config

	active    atomic.Bool
	cancelled atomic.Bool

	sleep func(ctx context.Context, d time.Duration) error
}

// NewSyncEngine wires the engine. store may be nil to disable response caching.
func NewSyncEngine(registry DisclosureRegistry, corps CorporationWriter, stmts StatementWriter, logs SyncLogRepository, limiter ratelimiter.Waiter, store cache.Store, cfg Config) *SyncEngine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultConfig().BackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultConfig().BackoffMax
	}
	if cfg.ReportCode == "" {
		cfg.ReportCode = stmtentity.ReportAnnual
	}
	return &SyncEngine{
		registry: registry,
		corps:    corps,
		stmts:    stmts,
		logs:     logs,
		limiter:  limiter,
		store:    store,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

// Cancel requests a cooperative stop of the active run. Already completed
// units keep their outcomes; the engine checks the flag between units.
func (e *SyncEngine) Cancel() {
	e.cancelled.Store(true)
}

// SyncCorporationList refreshes the corporation master data for the given
// market class. Pass an empty corpCls to fetch every market.
func (e *SyncEngine) SyncCorporationList(ctx context.Context, corpCls string, progress domain.Progress) (domain.Report, error) {
	if !e.active.CompareAndSwap(false, true) {
		return domain.Report{}, domain.ErrSyncInProgress
	}
	defer e.active.Store(false)
	e.cancelled.Store(false)

	report := domain.Report{}
	corps, err := e.listWithRetry(ctx, corpCls)
	if err != nil {
		kind := domain.ClassifyError(err)
		report.Failed = append(report.Failed, domain.UnitFailure{Kind: kind})
		if kind == domain.KindAuth {
			report.Aborted = true
		}
		e.emit(progress, 1, 1, entity.OutcomeFailed)
		return report, fmt.Errorf("sync corporation list: %w", err)
	}
	if err := e.corps.UpsertBatch(ctx, corps); err != nil {
		report.Failed = append(report.Failed, domain.UnitFailure{Kind: domain.KindTransient})
		e.emit(progress, 1, 1, entity.OutcomeFailed)
		return report, fmt.Errorf("store corporation list: %w", err)
	}
	e.appendLog(ctx, "", entity.OpCorporationList, entity.OutcomeSucceeded, strconv.Itoa(len(corps))+" corporations")
	report.Succeeded = 1
	e.emit(progress, 1, 1, entity.OutcomeSucceeded)
	return report, nil
}

// SyncStatements fetches annual statements for every (corporation, year)
// pair, in order, continuing past unit failures. The returned report counts
// per-unit outcomes; a non-nil error means the whole run aborted early.
func (e *SyncEngine) SyncStatements(ctx context.Context, corpCodes []string, years []int, progress domain.Progress) (domain.Report, error) {
	if !e.active.CompareAndSwap(false, true) {
		return domain.Report{}, domain.ErrSyncInProgress
	}
	defer e.active.Store(false)
	e.cancelled.Store(false)

	units := make([]domain.Unit, 0, len(corpCodes)*len(years))
	for _, code := range corpCodes {
		for _, year := range years {
			units = append(units, domain.Unit{CorpCode: code, Year: year})
		}
	}

	report := domain.Report{}
	total := len(units)
	for i, u := range units {
		if e.cancelled.Load() || ctx.Err() != nil {
			report.Cancelled = true
			e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeSkipped, "run cancelled")
			break
		}

		outcome, err := e.syncUnit(ctx, u)
		switch outcome {
		case entity.OutcomeSucceeded:
			report.Succeeded++
		default:
			report.Failed = append(report.Failed, domain.UnitFailure{Unit: u, Kind: domain.ClassifyError(err)})
		}
		e.emit(progress, i+1, total, outcome)

		if err != nil && domain.ClassifyError(err) == domain.KindAuth {
			report.Aborted = true
			return report, fmt.Errorf("sync statements: %w", err)
		}
	}
	return report, nil
}

// syncUnit processes a single (corporation, year) pair: serve from the
// response cache when fresh, otherwise fetch with retry and persist.
func (e *SyncEngine) syncUnit(ctx context.Context, u domain.Unit) (entity.Outcome, error) {
	key := e.unitKey(u)
	if e.store != nil {
		if payload, ok, err := e.store.Get(ctx, key); err == nil && ok {
			var stmts []stmtentity.Statement
			if json.Unmarshal(payload, &stmts) == nil {
				if err := e.stmts.UpsertBatch(ctx, stmts); err == nil {
					e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeSucceeded, fmt.Sprintf("year %d from cache", u.Year))
					return entity.OutcomeSucceeded, nil
				}
			}
			// corrupted or unusable entry, fall through to a fresh fetch
			_ = e.store.Invalidate(ctx, key)
		}
	}

	stmts, err := e.fetchWithRetry(ctx, u)
	if err != nil {
		kind := domain.ClassifyError(err)
		if kind == domain.KindNotFound || kind == domain.KindMalformed {
			e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeSkipped, err.Error())
			return entity.OutcomeSkipped, err
		}
		return entity.OutcomeFailed, err
	}
	if err := e.stmts.UpsertBatch(ctx, stmts); err != nil {
		e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeFailed, err.Error())
		return entity.OutcomeFailed, err
	}
	if e.store != nil {
		if payload, err := json.Marshal(stmts); err == nil {
			if err := e.store.Set(ctx, key, payload, e.cfg.CacheTTL); err != nil {
				slog.Warn("failed to cache statement response", "corp_code", u.CorpCode, "year", u.Year, "error", err)
			}
		}
	}
	e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeSucceeded, fmt.Sprintf("year %d, %d rows", u.Year, len(stmts)))
	return entity.OutcomeSucceeded, nil
}

// fetchWithRetry calls the registry with exponential backoff and jitter.
// Auth, not-found, and malformed errors are terminal; transient and
// rate-limited errors consume the attempt budget. Every failed attempt is
// written to the sync log.
func (e *SyncEngine) fetchWithRetry(ctx context.Context, u domain.Unit) ([]stmtentity.Statement, error) {
	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.sleep(ctx, e.backoff(attempt-1, lastErr)); err != nil {
				return nil, lastErr
			}
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		stmts, err := e.registry.FetchStatements(ctx, u.CorpCode, u.Year, e.cfg.ReportCode)
		if err == nil {
			return stmts, nil
		}
		lastErr = err

		switch domain.ClassifyError(err) {
		case domain.KindAuth:
			e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeFailed, err.Error())
			return nil, err
		case domain.KindNotFound, domain.KindMalformed:
			return nil, err
		}
		e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeFailed, err.Error())
	}
	e.appendLog(ctx, u.CorpCode, entity.OpStatements, entity.OutcomeFailed, fmt.Sprintf("retry budget exhausted after %d attempts", e.cfg.MaxAttempts))
	return nil, lastErr
}

// listWithRetry mirrors fetchWithRetry for the corporation list call.
func (e *SyncEngine) listWithRetry(ctx context.Context, corpCls string) ([]corpentity.Corporation, error) {
	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.sleep(ctx, e.backoff(attempt-1, lastErr)); err != nil {
				return nil, lastErr
			}
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		corps, err := e.registry.ListCorporations(ctx, corpCls)
		if err == nil {
			return corps, nil
		}
		lastErr = err

		kind := domain.ClassifyError(err)
		e.appendLog(ctx, "", entity.OpCorporationList, entity.OutcomeFailed, err.Error())
		if kind == domain.KindAuth || kind == domain.KindNotFound || kind == domain.KindMalformed {
			return nil, err
		}
	}
	return nil, lastErr
}

// backoff returns the delay before the given retry (1-based). A server
// supplied Retry-After on the previous failure takes precedence over the
// exponential schedule.
func (e *SyncEngine) backoff(retry int, lastErr error) time.Duration {
	var regErr *domain.RegistryError
	if errors.As(lastErr, &regErr) && regErr.Kind == domain.KindRateLimited && regErr.RetryAfter > 0 {
		return regErr.RetryAfter
	}
	d := e.cfg.BackoffBase << (retry - 1)
	if d > e.cfg.BackoffMax || d <= 0 {
		d = e.cfg.BackoffMax
	}
	return d + time.Duration(rand.Int64N(int64(e.cfg.BackoffBase)))
}

// RecentLog returns the latest sync log entries, newest first.
func (e *SyncEngine) RecentLog(ctx context.Context, limit int) ([]entity.SyncLogEntry, error) {
	return e.logs.Recent(ctx, limit)
}

// CorpLog returns the full sync history of one corporation, oldest first.
func (e *SyncEngine) CorpLog(ctx context.Context, corpCode string) ([]entity.SyncLogEntry, error) {
	return e.logs.ByCorp(ctx, corpCode)
}

func (e *SyncEngine) unitKey(u domain.Unit) string {
	return cache.Fingerprint("remote_stmts", u.CorpCode, strconv.Itoa(u.Year), e.cfg.ReportCode)
}

// appendLog writes a log entry, warning instead of failing the run when the
// log store itself is unavailable.
func (e *SyncEngine) appendLog(ctx context.Context, corpCode, op string, outcome entity.Outcome, detail string) {
	err := e.logs.Append(ctx, entity.SyncLogEntry{
		Timestamp: time.Now(),
		CorpCode:  corpCode,
		Operation: op,
		Outcome:   outcome,
		Detail:    detail,
	})
	if err != nil {
		slog.Warn("failed to append sync log entry", "corp_code", corpCode, "operation", op, "error", err)
	}
}

func (e *SyncEngine) emit(progress domain.Progress, completed, total int, outcome entity.Outcome) {
	if progress != nil {
		progress(completed, total, string(outcome))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
