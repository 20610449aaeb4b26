package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	corpentity "disclosure_backend/internal/feature/corporations/domain/entity"
	stmtentity "disclosure_backend/internal/feature/statements/domain/entity"
	"disclosure_backend/internal/feature/sync/domain"
	"disclosure_backend/internal/feature/sync/domain/entity"
	"disclosure_backend/internal/platform/cache"
)

// mockRegistry is a mock implementation of the DisclosureRegistry interface.
type mockRegistry struct {
	ListCorporationsFunc func(ctx context.Context, corpCls string) ([]corpentity.Corporation, error)
	FetchStatementsFunc  func(ctx context.Context, corpCode string, year int, reprtCode string) ([]stmtentity.Statement, error)
	FetchCalls           int
}

func (m *mockRegistry) ListCorporations(ctx context.Context, corpCls string) ([]corpentity.Corporation, error) {
	if m.ListCorporationsFunc != nil {
		return m.ListCorporationsFunc(ctx, corpCls)
	}
	return nil, errors.New("ListCorporationsFunc is not implemented")
}

func (m *mockRegistry) FetchStatements(ctx context.Context, corpCode string, year int, reprtCode string) ([]stmtentity.Statement, error) {
	m.FetchCalls++
	if m.FetchStatementsFunc != nil {
		return m.FetchStatementsFunc(ctx, corpCode, year, reprtCode)
	}
	return nil, errors.New("FetchStatementsFunc is not implemented")
}

// mockCorpWriter is a mock implementation of the CorporationWriter interface.
type mockCorpWriter struct {
	UpsertBatchFunc  func(ctx context.Context, corps []corpentity.Corporation) error
	UpsertBatchCalls int
}

func (m *mockCorpWriter) UpsertBatch(ctx context.Context, corps []corpentity.Corporation) error {
	m.UpsertBatchCalls++
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, corps)
	}
	return nil
}

// mockStmtWriter is a mock implementation of the StatementWriter interface.
type mockStmtWriter struct {
	UpsertBatchFunc  func(ctx context.Context, stmts []stmtentity.Statement) error
	UpsertBatchCalls int
}

func (m *mockStmtWriter) UpsertBatch(ctx context.Context, stmts []stmtentity.Statement) error {
	m.UpsertBatchCalls++
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, stmts)
	}
	return nil
}

// memoryLog is an in-memory SyncLogRepository for assertions on the
// append-only log.
type memoryLog struct {
	mu      sync.Mutex
	entries []entity.SyncLogEntry
}

func (m *memoryLog) Append(_ context.Context, e entity.SyncLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLog) Recent(_ context.Context, limit int) ([]entity.SyncLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.SyncLogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memoryLog) ByCorp(_ context.Context, corpCode string) ([]entity.SyncLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.SyncLogEntry
	for _, e := range m.entries {
		if e.CorpCode == corpCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryLog) count(corpCode string, outcome entity.Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.CorpCode == corpCode && e.Outcome == outcome {
			n++
		}
	}
	return n
}

// noopLimiter satisfies ratelimiter.Waiter without waiting.
type noopLimiter struct {
	WaitCalls int
}

func (l *noopLimiter) Wait(ctx context.Context) error {
	l.WaitCalls++
	return ctx.Err()
}

func testStatements(corpCode string, year int) []stmtentity.Statement {
	return []stmtentity.Statement{
		{CorpCode: corpCode, BsnsYear: year, ReprtCode: stmtentity.ReportAnnual, FsDiv: stmtentity.FsDivConsolidated, SjDiv: stmtentity.StmtBalanceSheet, AccountName: stmtentity.AccountTotalAssets, Amount: 1000},
	}
}

func newTestEngine(registry *mockRegistry, stmts *mockStmtWriter, logs *memoryLog, store cache.Store) (*SyncEngine, *[]time.Duration) {
	e := NewSyncEngine(registry, &mockCorpWriter{}, stmts, logs, &noopLimiter{}, store, Config{
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffMax:  time.Second,
		CacheTTL:    time.Hour,
	})
	var slept []time.Duration
	e.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return e, &slept
}

func TestSyncEngine_SyncStatements_AllSucceed(t *testing.T) {
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			return testStatements(corpCode, year), nil
		},
	}
	stmts := &mockStmtWriter{}
	logs := &memoryLog{}
	engine, _ := newTestEngine(registry, stmts, logs, nil)

	var progressCalls int
	report, err := engine.SyncStatements(context.Background(), []string{"00000001", "00000002"}, []int{2023, 2024}, func(completed, total int, outcome string) {
		progressCalls++
		if total != 4 {
			t.Errorf("progress total mismatch: got %d, want 4", total)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 4 || len(report.Failed) != 0 {
		t.Errorf("report mismatch: got %+v", report)
	}
	if progressCalls != 4 {
		t.Errorf("progress calls mismatch: got %d, want 4", progressCalls)
	}
	if stmts.UpsertBatchCalls != 4 {
		t.Errorf("upsert calls mismatch: got %d, want 4", stmts.UpsertBatchCalls)
	}
}

func TestSyncEngine_SyncStatements_TransientRetryThenSuccess(t *testing.T) {
	attempts := map[string]int{}
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			attempts[corpCode]++
			if corpCode == "00000002" && attempts[corpCode] <= 2 {
				return nil, &domain.RegistryError{Kind: domain.KindTransient, Message: "gateway timeout"}
			}
			return testStatements(corpCode, year), nil
		},
	}
	logs := &memoryLog{}
	engine, slept := newTestEngine(registry, &mockStmtWriter{}, logs, nil)

	report, err := engine.SyncStatements(context.Background(), []string{"00000001", "00000002", "00000003"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 3 || len(report.Failed) != 0 {
		t.Errorf("report mismatch: got %+v", report)
	}
	if got := logs.count("00000002", entity.OutcomeFailed); got != 2 {
		t.Errorf("failed log entries mismatch: got %d, want 2", got)
	}
	if got := logs.count("00000002", entity.OutcomeSucceeded); got != 1 {
		t.Errorf("succeeded log entries mismatch: got %d, want 1", got)
	}
	if len(*slept) != 2 {
		t.Errorf("backoff sleeps mismatch: got %d, want 2", len(*slept))
	}
}

func TestSyncEngine_SyncStatements_RetryAfterOverridesBackoff(t *testing.T) {
	first := true
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			if first {
				first = false
				return nil, &domain.RegistryError{Kind: domain.KindRateLimited, Message: "quota", RetryAfter: 42 * time.Second}
			}
			return testStatements(corpCode, year), nil
		},
	}
	engine, slept := newTestEngine(registry, &mockStmtWriter{}, &memoryLog{}, nil)

	report, err := engine.SyncStatements(context.Background(), []string{"00000001"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 {
		t.Errorf("report mismatch: got %+v", report)
	}
	if len(*slept) != 1 || (*slept)[0] != 42*time.Second {
		t.Errorf("expected the server-supplied delay, got %v", *slept)
	}
}

func TestSyncEngine_SyncStatements_RetryBudgetExhausted(t *testing.T) {
	registry := &mockRegistry{
		FetchStatementsFunc: func(context.Context, string, int, string) ([]stmtentity.Statement, error) {
			return nil, &domain.RegistryError{Kind: domain.KindTransient, Message: "connection reset"}
		},
	}
	engine, _ := newTestEngine(registry, &mockStmtWriter{}, &memoryLog{}, nil)

	report, err := engine.SyncStatements(context.Background(), []string{"00000001"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 0 || len(report.Failed) != 1 {
		t.Fatalf("report mismatch: got %+v", report)
	}
	if report.Failed[0].Kind != domain.KindTransient {
		t.Errorf("failure kind mismatch: got %s", report.Failed[0].Kind)
	}
	if registry.FetchCalls != 3 {
		t.Errorf("fetch calls mismatch: got %d, want 3", registry.FetchCalls)
	}
}

func TestSyncEngine_SyncStatements_AuthAbortsRemainingUnits(t *testing.T) {
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			if corpCode == "00000003" {
				return nil, &domain.RegistryError{Kind: domain.KindAuth, Message: "invalid key"}
			}
			return testStatements(corpCode, year), nil
		},
	}
	engine, _ := newTestEngine(registry, &mockStmtWriter{}, &memoryLog{}, nil)

	codes := []string{"00000001", "00000002", "00000003", "00000004", "00000005"}
	report, err := engine.SyncStatements(context.Background(), codes, []int{2024}, nil)
	if err == nil {
		t.Fatal("expected an error for the auth failure")
	}
	if !report.Aborted {
		t.Error("report should be marked aborted")
	}
	if report.Succeeded != 2 {
		t.Errorf("completed units not preserved: got %d, want 2", report.Succeeded)
	}
	if registry.FetchCalls != 3 {
		t.Errorf("units after the auth failure were attempted: %d fetches", registry.FetchCalls)
	}
}

func TestSyncEngine_SyncStatements_NotFoundIsSkipped(t *testing.T) {
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			if corpCode == "00000002" {
				return nil, &domain.RegistryError{Kind: domain.KindNotFound, Message: "no data"}
			}
			return testStatements(corpCode, year), nil
		},
	}
	logs := &memoryLog{}
	engine, slept := newTestEngine(registry, &mockStmtWriter{}, logs, nil)

	report, err := engine.SyncStatements(context.Background(), []string{"00000001", "00000002"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 || len(report.Failed) != 1 {
		t.Fatalf("report mismatch: got %+v", report)
	}
	if report.Failed[0].Kind != domain.KindNotFound {
		t.Errorf("failure kind mismatch: got %s", report.Failed[0].Kind)
	}
	if got := logs.count("00000002", entity.OutcomeSkipped); got != 1 {
		t.Errorf("skipped log entries mismatch: got %d, want 1", got)
	}
	if len(*slept) != 0 {
		t.Errorf("not-found must not be retried, slept %v", *slept)
	}
}

func TestSyncEngine_SyncStatements_Cancellation(t *testing.T) {
	registry := &mockRegistry{}
	engine, _ := newTestEngine(registry, &mockStmtWriter{}, &memoryLog{}, nil)
	registry.FetchStatementsFunc = func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
		if corpCode == "00000002" {
			engine.Cancel()
		}
		return testStatements(corpCode, year), nil
	}

	report, err := engine.SyncStatements(context.Background(), []string{"00000001", "00000002", "00000003"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Cancelled {
		t.Error("report should be marked cancelled")
	}
	if report.Succeeded != 2 {
		t.Errorf("completed units not preserved: got %d, want 2", report.Succeeded)
	}
	if registry.FetchCalls != 2 {
		t.Errorf("units after cancellation were attempted: %d fetches", registry.FetchCalls)
	}
}

func TestSyncEngine_SyncStatements_SecondRunRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			close(started)
			<-release
			return testStatements(corpCode, year), nil
		},
	}
	engine, _ := newTestEngine(registry, &mockStmtWriter{}, &memoryLog{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := engine.SyncStatements(context.Background(), []string{"00000001"}, []int{2024}, nil); err != nil {
			t.Errorf("first run failed: %v", err)
		}
	}()

	<-started
	if _, err := engine.SyncStatements(context.Background(), []string{"00000002"}, []int{2024}, nil); !errors.Is(err, domain.ErrSyncInProgress) {
		t.Errorf("expected ErrSyncInProgress, got %v", err)
	}
	close(release)
	<-done
}

func TestSyncEngine_SyncStatements_CacheHitSkipsRemoteCall(t *testing.T) {
	registry := &mockRegistry{
		FetchStatementsFunc: func(_ context.Context, corpCode string, year int, _ string) ([]stmtentity.Statement, error) {
			return testStatements(corpCode, year), nil
		},
	}
	stmts := &mockStmtWriter{}
	store := cache.NewMemoryStore()
	engine, _ := newTestEngine(registry, stmts, &memoryLog{}, store)

	if _, err := engine.SyncStatements(context.Background(), []string{"00000001"}, []int{2024}, nil); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if registry.FetchCalls != 1 {
		t.Fatalf("fetch calls after first run: got %d, want 1", registry.FetchCalls)
	}

	report, err := engine.SyncStatements(context.Background(), []string{"00000001"}, []int{2024}, nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if registry.FetchCalls != 1 {
		t.Errorf("cached unit hit the registry again: %d fetches", registry.FetchCalls)
	}
	if report.Succeeded != 1 {
		t.Errorf("report mismatch: got %+v", report)
	}
	if stmts.UpsertBatchCalls != 2 {
		t.Errorf("cached data should still be written: got %d upserts", stmts.UpsertBatchCalls)
	}
}

func TestSyncEngine_SyncCorporationList(t *testing.T) {
	registry := &mockRegistry{
		ListCorporationsFunc: func(_ context.Context, corpCls string) ([]corpentity.Corporation, error) {
			if corpCls != corpentity.CorpClsKOSPI {
				t.Errorf("corpCls mismatch: got %q", corpCls)
			}
			return []corpentity.Corporation{{CorpCode: "00000001", CorpName: "Alpha Holdings"}}, nil
		},
	}
	corps := &mockCorpWriter{}
	logs := &memoryLog{}
	engine := NewSyncEngine(registry, corps, &mockStmtWriter{}, logs, &noopLimiter{}, nil, Config{})

	report, err := engine.SyncCorporationList(context.Background(), corpentity.CorpClsKOSPI, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 {
		t.Errorf("report mismatch: got %+v", report)
	}
	if corps.UpsertBatchCalls != 1 {
		t.Errorf("upsert calls mismatch: got %d", corps.UpsertBatchCalls)
	}
	if got := logs.count("", entity.OutcomeSucceeded); got != 1 {
		t.Errorf("log entries mismatch: got %d, want 1", got)
	}
}

func TestSyncEngine_SyncCorporationList_AuthFailure(t *testing.T) {
	registry := &mockRegistry{
		ListCorporationsFunc: func(context.Context, string) ([]corpentity.Corporation, error) {
			return nil, &domain.RegistryError{Kind: domain.KindAuth, Message: "invalid key"}
		},
	}
	engine := NewSyncEngine(registry, &mockCorpWriter{}, &mockStmtWriter{}, &memoryLog{}, &noopLimiter{}, nil, Config{})

	report, err := engine.SyncCorporationList(context.Background(), "", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !report.Aborted {
		t.Error("report should be marked aborted")
	}
}
