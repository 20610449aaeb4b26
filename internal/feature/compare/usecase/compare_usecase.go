package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	analysis "disclosure_backend/internal/feature/analysis/domain"
	"disclosure_backend/internal/feature/compare/domain"
	"disclosure_backend/internal/feature/compare/domain/entity"
	corpentity "disclosure_backend/internal/feature/corporations/domain/entity"
)

// MaxSelections caps the comparison selection size.
const MaxSelections = 5

// Analyzer computes the per-corporation figures the comparison is
// built from. Interface is defined by the consumer (usecase), not the
// provider.
type Analyzer interface {
	Snapshot(ctx context.Context, corpCode string, year int) (analysis.Snapshot, error)
	Ratios(ctx context.Context, corpCode string, year int) (analysis.RatioSet, error)
	Health(ctx context.Context, corpCode string, year int) (analysis.HealthScore, error)
}

// CorporationReader resolves corporation master data.
type CorporationReader interface {
	FindByCode(ctx context.Context, corpCode string) (*corpentity.Corporation, error)
}

// ComparisonSetRepository persists named selections.
type ComparisonSetRepository interface {
	Save(ctx context.Context, set entity.ComparisonSet) error
	FindByName(ctx context.Context, name string) (*entity.ComparisonSet, error)
	List(ctx context.Context) ([]entity.ComparisonSet, error)
	Delete(ctx context.Context, name string) error
}

// CompareUsecase manages a bounded, ordered selection of corporations
// and builds comparison tables, rankings, and summary stats over it.
// The selection is safe for concurrent use.
type CompareUsecase struct {
	analyzer Analyzer
	corps    CorporationReader
	sets     ComparisonSetRepository

	mu       sync.Mutex
	selected []string
}

// NewCompareUsecase wires the comparison manager. sets may be nil when
// saving selections is not needed.
func NewCompareUsecase(analyzer Analyzer, corps CorporationReader, sets ComparisonSetRepository) *CompareUsecase {
	return &CompareUsecase{analyzer: analyzer, corps: corps, sets: sets}
}

// Add puts a corporation into the selection. Adding an already selected
// corporation is a no-op; adding beyond MaxSelections fails.
func (u *CompareUsecase) Add(ctx context.Context, corpCode string) error {
	if _, err := u.corps.FindByCode(ctx, corpCode); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, code := range u.selected {
		if code == corpCode {
			return nil
		}
	}
	if len(u.selected) >= MaxSelections {
		return fmt.Errorf("%w: limit is %d", domain.ErrComparisonFull, MaxSelections)
	}
	u.selected = append(u.selected, corpCode)
	return nil
}

// Remove drops a corporation from the selection. Removing an absent
// corporation is a no-op.
func (u *CompareUsecase) Remove(corpCode string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, code := range u.selected {
		if code == corpCode {
			u.selected = append(u.selected[:i], u.selected[i+1:]...)
			return
		}
	}
}

// Clear empties the selection.
func (u *CompareUsecase) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selected = nil
}

// Selected returns the current selection in insertion order.
func (u *CompareUsecase) Selected() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.selected))
	copy(out, u.selected)
	return out
}

// BuildTable produces a rows-per-metric table for the given year.
// Corporations without stored statements for that year get undefined
// values in every row.
func (u *CompareUsecase) BuildTable(ctx context.Context, year int) (domain.Table, error) {
	codes := u.Selected()
	if len(codes) == 0 {
		return domain.Table{}, domain.ErrEmptySelection
	}

	table := domain.Table{Year: year}
	bundles := make([]figures, 0, len(codes))
	for _, code := range codes {
		table.Corps = append(table.Corps, domain.CorpColumn{CorpCode: code, CorpName: u.corpName(ctx, code)})
		bundles = append(bundles, u.figuresFor(ctx, code, year))
	}
	for _, metric := range tableMetrics {
		row := domain.MetricRow{Metric: metric, Values: make([]analysis.Metric, len(bundles))}
		for i, b := range bundles {
			row.Values[i] = metricPickers[metric](b)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Rank orders the selection by one metric, highest first. Corporations
// with an undefined value come last with rank zero; ties break by
// corporation code ascending.
func (u *CompareUsecase) Rank(ctx context.Context, year int, metric string) ([]domain.RankEntry, error) {
	pick, ok := metricPickers[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", analysis.ErrUnknownMetric, metric)
	}
	codes := u.Selected()
	if len(codes) == 0 {
		return nil, domain.ErrEmptySelection
	}

	entries := make([]domain.RankEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, domain.RankEntry{
			CorpCode: code,
			CorpName: u.corpName(ctx, code),
			Value:    pick(u.figuresFor(ctx, code, year)),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Value.Valid != b.Value.Valid:
			return a.Value.Valid
		case a.Value.Valid && a.Value.Value != b.Value.Value:
			return a.Value.Value > b.Value.Value
		default:
			return a.CorpCode < b.CorpCode
		}
	})
	rank := 0
	for i := range entries {
		if entries[i].Value.Valid {
			rank++
			entries[i].Rank = rank
		}
	}
	return entries, nil
}

// Stats summarizes every table metric across the selection.
func (u *CompareUsecase) Stats(ctx context.Context, year int) ([]domain.MetricStats, error) {
	codes := u.Selected()
	if len(codes) == 0 {
		return nil, domain.ErrEmptySelection
	}
	bundles := make(map[string]figures, len(codes))
	for _, code := range codes {
		bundles[code] = u.figuresFor(ctx, code, year)
	}

	out := make([]domain.MetricStats, 0, len(tableMetrics))
	for _, metric := range tableMetrics {
		stats := domain.MetricStats{Metric: metric}
		var sum float64
		var values []float64
		for _, code := range codes {
			v := metricPickers[metric](bundles[code])
			if !v.Valid {
				continue
			}
			if len(values) == 0 || v.Value < stats.Min.Value {
				stats.Min = v
			}
			if len(values) == 0 || v.Value > stats.Max.Value {
				stats.Max = v
				stats.Best = code
			}
			sum += v.Value
			values = append(values, v.Value)
		}
		if len(values) > 0 {
			stats.Avg = analysis.Defined(sum / float64(len(values)))
			stats.Median = analysis.Defined(median(values))
		}
		out = append(out, stats)
	}
	return out, nil
}

// median of a non-empty slice; the input order is not preserved.
func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// SaveSet persists the current selection under a name, overwriting any
// existing set with that name.
func (u *CompareUsecase) SaveSet(ctx context.Context, name string) error {
	codes := u.Selected()
	if len(codes) == 0 {
		return domain.ErrEmptySelection
	}
	return u.sets.Save(ctx, entity.ComparisonSet{Name: name, CorpCodes: codes, UpdatedAt: time.Now()})
}

// LoadSet replaces the selection with a saved set. Codes that no longer
// resolve in the corporation store are dropped silently.
func (u *CompareUsecase) LoadSet(ctx context.Context, name string) ([]string, error) {
	set, err := u.sets.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(set.CorpCodes))
	for _, code := range set.CorpCodes {
		if _, err := u.corps.FindByCode(ctx, code); err == nil {
			kept = append(kept, code)
		}
	}
	u.mu.Lock()
	u.selected = kept
	u.mu.Unlock()
	return kept, nil
}

// ListSets returns every saved set.
func (u *CompareUsecase) ListSets(ctx context.Context) ([]entity.ComparisonSet, error) {
	return u.sets.List(ctx)
}

// DeleteSet removes a saved set by name.
func (u *CompareUsecase) DeleteSet(ctx context.Context, name string) error {
	return u.sets.Delete(ctx, name)
}

// figures is the per-corporation bundle the metric pickers read from.
type figures struct {
	snap   analysis.Snapshot
	ratios analysis.RatioSet
	health analysis.HealthScore
}

func (u *CompareUsecase) figuresFor(ctx context.Context, corpCode string, year int) figures {
	var f figures
	if snap, err := u.analyzer.Snapshot(ctx, corpCode, year); err == nil {
		f.snap = snap
	}
	if ratios, err := u.analyzer.Ratios(ctx, corpCode, year); err == nil {
		f.ratios = ratios
	}
	if health, err := u.analyzer.Health(ctx, corpCode, year); err == nil {
		f.health = health
	}
	return f
}

func (u *CompareUsecase) corpName(ctx context.Context, corpCode string) string {
	corp, err := u.corps.FindByCode(ctx, corpCode)
	if err != nil {
		return corpCode
	}
	return corp.CorpName
}

var tableMetrics = []string{
	"revenue",
	"operating_income",
	"net_income",
	"total_assets",
	"debt_ratio",
	"current_ratio",
	"operating_margin",
	"net_margin",
	"roe",
	"roa",
	"health_score",
}

var metricPickers = map[string]func(figures) analysis.Metric{
	"revenue":          func(f figures) analysis.Metric { return f.snap.Revenue },
	"operating_income": func(f figures) analysis.Metric { return f.snap.OperatingIncome },
	"net_income":       func(f figures) analysis.Metric { return f.snap.NetIncome },
	"total_assets":     func(f figures) analysis.Metric { return f.snap.TotalAssets },
	"debt_ratio":       func(f figures) analysis.Metric { return f.ratios.DebtRatio },
	"current_ratio":    func(f figures) analysis.Metric { return f.ratios.CurrentRatio },
	"operating_margin": func(f figures) analysis.Metric { return f.ratios.OperatingMargin },
	"net_margin":       func(f figures) analysis.Metric { return f.ratios.NetMargin },
	"roe":              func(f figures) analysis.Metric { return f.ratios.ROE },
	"roa":              func(f figures) analysis.Metric { return f.ratios.ROA },
	"health_score":     func(f figures) analysis.Metric { return f.health.Score },
}
