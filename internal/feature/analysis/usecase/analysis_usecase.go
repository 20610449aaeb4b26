package usecase

import (
	"context"
	"fmt"
	"math"

	"disclosure_backend/internal/feature/analysis/domain"
	corpentity "disclosure_backend/internal/feature/corporations/domain/entity"
	stmtentity "disclosure_backend/internal/feature/statements/domain/entity"
)

// StatementReader reads stored statement rows. Interface is defined by
// the consumer (usecase), not the provider (adapters).
type StatementReader interface {
	ListByYear(ctx context.Context, corpCode string, year int, fsDiv string) ([]stmtentity.Statement, error)
	Years(ctx context.Context, corpCode string) ([]int, error)
}

// CorporationReader resolves corporation master data.
type CorporationReader interface {
	FindByCode(ctx context.Context, corpCode string) (*corpentity.Corporation, error)
}

// AnalysisUsecase derives ratios, growth rates, and health scores from
// stored statements. All computations are per corporation and fiscal
// year; missing accounts surface as undefined metrics, never as errors.
type AnalysisUsecase struct {
	stmts    StatementReader
	corps    CorporationReader
	scoreCfg domain.ScoreConfig
	fsDiv    string
}

// NewAnalysisUsecase creates an analyzer over consolidated statements.
func NewAnalysisUsecase(stmts StatementReader, corps CorporationReader, scoreCfg domain.ScoreConfig) *AnalysisUsecase {
	return &AnalysisUsecase{
		stmts:    stmts,
		corps:    corps,
		scoreCfg: scoreCfg,
		fsDiv:    stmtentity.FsDivConsolidated,
	}
}

// Snapshot extracts the key account amounts of one fiscal year.
func (u *AnalysisUsecase) Snapshot(ctx context.Context, corpCode string, year int) (domain.Snapshot, error) {
	rows, err := u.stmts.ListByYear(ctx, corpCode, year, u.fsDiv)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("list statements: %w", err)
	}
	if len(rows) == 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: %s %d", domain.ErrNoStatements, corpCode, year)
	}
	return snapshotFrom(corpCode, year, rows), nil
}

// Ratios computes the ratio set of one fiscal year. ROE and ROA use the
// average of opening and closing equity and assets when the prior year
// is stored, the closing value otherwise.
func (u *AnalysisUsecase) Ratios(ctx context.Context, corpCode string, year int) (domain.RatioSet, error) {
	cur, err := u.Snapshot(ctx, corpCode, year)
	if err != nil {
		return domain.RatioSet{}, err
	}
	prev, _ := u.Snapshot(ctx, corpCode, year-1)
	return ratiosFrom(cur, prev), nil
}

// Growth computes year-over-year growth against the prior fiscal year.
func (u *AnalysisUsecase) Growth(ctx context.Context, corpCode string, year int) (domain.GrowthSet, error) {
	cur, err := u.Snapshot(ctx, corpCode, year)
	if err != nil {
		return domain.GrowthSet{}, err
	}
	g := domain.GrowthSet{Year: year}
	prev, err := u.Snapshot(ctx, corpCode, year-1)
	if err != nil {
		return g, nil
	}
	g.RevenueGrowth = growth(cur.Revenue, prev.Revenue)
	g.OperatingIncomeGrowth = growth(cur.OperatingIncome, prev.OperatingIncome)
	g.NetIncomeGrowth = growth(cur.NetIncome, prev.NetIncome)
	g.AssetGrowth = growth(cur.TotalAssets, prev.TotalAssets)
	return g, nil
}

// CAGR computes compound annual growth over the full stored year range.
func (u *AnalysisUsecase) CAGR(ctx context.Context, corpCode string) (domain.CAGRSet, error) {
	years, err := u.stmts.Years(ctx, corpCode)
	if err != nil {
		return domain.CAGRSet{}, fmt.Errorf("list years: %w", err)
	}
	if len(years) == 0 {
		return domain.CAGRSet{}, fmt.Errorf("%w: %s", domain.ErrNoStatements, corpCode)
	}
	startYear, endYear := years[0], years[len(years)-1]
	set := domain.CAGRSet{StartYear: startYear, EndYear: endYear}
	if startYear == endYear {
		return set, nil
	}
	start, err := u.Snapshot(ctx, corpCode, startYear)
	if err != nil {
		return set, nil
	}
	end, err := u.Snapshot(ctx, corpCode, endYear)
	if err != nil {
		return set, nil
	}
	span := endYear - startYear
	set.RevenueCAGR = cagr(start.Revenue, end.Revenue, span)
	set.NetIncomeCAGR = cagr(start.NetIncome, end.NetIncome, span)
	set.AssetCAGR = cagr(start.TotalAssets, end.TotalAssets, span)
	return set, nil
}

// Health scores one fiscal year using the configured weights.
func (u *AnalysisUsecase) Health(ctx context.Context, corpCode string, year int) (domain.HealthScore, error) {
	ratios, err := u.Ratios(ctx, corpCode, year)
	if err != nil {
		return domain.HealthScore{}, err
	}
	return domain.ComputeHealthScore(u.scoreCfg, ratios.DebtRatio, ratios.CurrentRatio, ratios.OperatingMargin, ratios.ROE), nil
}

// Trend returns the per-year series of one ratio, oldest first.
func (u *AnalysisUsecase) Trend(ctx context.Context, corpCode, metric string) ([]domain.TrendPoint, error) {
	pick, ok := ratioPickers[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, metric)
	}
	years, err := u.stmts.Years(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	points := make([]domain.TrendPoint, 0, len(years))
	for _, year := range years {
		ratios, err := u.Ratios(ctx, corpCode, year)
		if err != nil {
			points = append(points, domain.TrendPoint{Year: year})
			continue
		}
		points = append(points, domain.TrendPoint{Year: year, Value: pick(ratios)})
	}
	return points, nil
}

// GrowthRates returns the year-over-year growth series of one account
// metric across every stored year, oldest first. Years where either
// value is missing or the base is zero are left out.
func (u *AnalysisUsecase) GrowthRates(ctx context.Context, corpCode, metric string) ([]domain.GrowthRate, error) {
	pick, ok := accountPickers[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, metric)
	}
	years, err := u.stmts.Years(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}

	values := make(map[int]domain.Metric, len(years))
	for _, year := range years {
		snap, err := u.Snapshot(ctx, corpCode, year)
		if err != nil {
			continue
		}
		values[year] = pick(snap)
	}

	rates := make([]domain.GrowthRate, 0, len(years))
	for i := 1; i < len(years); i++ {
		prev, cur := values[years[i-1]], values[years[i]]
		if !prev.Valid || !cur.Valid || prev.Value == 0 {
			continue
		}
		rates = append(rates, domain.GrowthRate{
			Year:      years[i],
			Growth:    (cur.Value - prev.Value) / math.Abs(prev.Value) * 100,
			PrevValue: prev.Value,
			CurrValue: cur.Value,
		})
	}
	return rates, nil
}

// GrowthStability condenses the growth-rate series of one account metric
// into mean, volatility, and a stability score.
func (u *AnalysisUsecase) GrowthStability(ctx context.Context, corpCode, metric string) (domain.Stability, error) {
	rates, err := u.GrowthRates(ctx, corpCode, metric)
	if err != nil {
		return domain.Stability{}, err
	}
	stability, ok := domain.ComputeStability(rates)
	if !ok {
		return domain.Stability{}, fmt.Errorf("%w: %s needs two years of %s", domain.ErrNoStatements, corpCode, metric)
	}
	return stability, nil
}

// Summarize bundles snapshot, ratios, growth, CAGR, and health for one
// corporation and year.
func (u *AnalysisUsecase) Summarize(ctx context.Context, corpCode string, year int) (domain.Summary, error) {
	corp, err := u.corps.FindByCode(ctx, corpCode)
	if err != nil {
		return domain.Summary{}, err
	}
	snap, err := u.Snapshot(ctx, corpCode, year)
	if err != nil {
		return domain.Summary{}, err
	}
	ratios, err := u.Ratios(ctx, corpCode, year)
	if err != nil {
		return domain.Summary{}, err
	}
	growthSet, err := u.Growth(ctx, corpCode, year)
	if err != nil {
		return domain.Summary{}, err
	}
	cagrSet, err := u.CAGR(ctx, corpCode)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{
		CorpCode: corpCode,
		CorpName: corp.CorpName,
		Year:     year,
		Snapshot: snap,
		Ratios:   ratios,
		Growth:   growthSet,
		CAGR:     cagrSet,
		Health:   domain.ComputeHealthScore(u.scoreCfg, ratios.DebtRatio, ratios.CurrentRatio, ratios.OperatingMargin, ratios.ROE),
	}, nil
}

var accountPickers = map[string]func(domain.Snapshot) domain.Metric{
	"revenue":          func(s domain.Snapshot) domain.Metric { return s.Revenue },
	"operating_income": func(s domain.Snapshot) domain.Metric { return s.OperatingIncome },
	"net_income":       func(s domain.Snapshot) domain.Metric { return s.NetIncome },
	"total_assets":     func(s domain.Snapshot) domain.Metric { return s.TotalAssets },
	"total_equity":     func(s domain.Snapshot) domain.Metric { return s.TotalEquity },
}

var ratioPickers = map[string]func(domain.RatioSet) domain.Metric{
	"debt_ratio":       func(r domain.RatioSet) domain.Metric { return r.DebtRatio },
	"current_ratio":    func(r domain.RatioSet) domain.Metric { return r.CurrentRatio },
	"operating_margin": func(r domain.RatioSet) domain.Metric { return r.OperatingMargin },
	"net_margin":       func(r domain.RatioSet) domain.Metric { return r.NetMargin },
	"roe":              func(r domain.RatioSet) domain.Metric { return r.ROE },
	"roa":              func(r domain.RatioSet) domain.Metric { return r.ROA },
}

// snapshotFrom matches stored rows against the canonical account names
// and their aliases. The first matching row per account wins.
func snapshotFrom(corpCode string, year int, rows []stmtentity.Statement) domain.Snapshot {
	s := domain.Snapshot{CorpCode: corpCode, Year: year}
	s.TotalAssets = accountAmount(rows, stmtentity.AccountTotalAssets)
	s.TotalLiabilities = accountAmount(rows, stmtentity.AccountTotalLiabilities)
	s.TotalEquity = accountAmount(rows, stmtentity.AccountTotalEquity)
	s.CurrentAssets = accountAmount(rows, stmtentity.AccountCurrentAssets)
	s.CurrentLiabilities = accountAmount(rows, stmtentity.AccountCurrentLiabilities)
	s.Revenue = accountAmount(rows, stmtentity.AccountRevenue)
	s.OperatingIncome = accountAmount(rows, stmtentity.AccountOperatingIncome)
	s.NetIncome = accountAmount(rows, stmtentity.AccountNetIncome)
	return s
}

func accountAmount(rows []stmtentity.Statement, canonical string) domain.Metric {
	for _, row := range rows {
		if row.AccountName == canonical {
			return domain.Defined(float64(row.Amount))
		}
	}
	for _, alias := range stmtentity.AccountAliases[canonical] {
		for _, row := range rows {
			if row.AccountName == alias {
				return domain.Defined(float64(row.Amount))
			}
		}
	}
	return domain.Undefined
}

func ratiosFrom(cur domain.Snapshot, prev domain.Snapshot) domain.RatioSet {
	r := domain.RatioSet{Year: cur.Year}
	if cur.TotalLiabilities.Valid && cur.TotalEquity.Valid {
		r.DebtRatio = domain.DebtRatio(cur.TotalLiabilities.Value, cur.TotalEquity.Value)
	}
	if cur.CurrentAssets.Valid && cur.CurrentLiabilities.Valid {
		r.CurrentRatio = domain.CurrentRatio(cur.CurrentAssets.Value, cur.CurrentLiabilities.Value)
	}
	if cur.OperatingIncome.Valid && cur.Revenue.Valid {
		r.OperatingMargin = domain.OperatingMargin(cur.OperatingIncome.Value, cur.Revenue.Value)
	}
	if cur.NetIncome.Valid && cur.Revenue.Valid {
		r.NetMargin = domain.NetMargin(cur.NetIncome.Value, cur.Revenue.Value)
	}
	if cur.NetIncome.Valid && cur.TotalEquity.Valid {
		r.ROE = domain.ROE(cur.NetIncome.Value, averaged(cur.TotalEquity, prev.TotalEquity))
	}
	if cur.NetIncome.Valid && cur.TotalAssets.Valid {
		r.ROA = domain.ROA(cur.NetIncome.Value, averaged(cur.TotalAssets, prev.TotalAssets))
	}
	return r
}

// averaged returns the two-year average when the prior value exists,
// the closing value otherwise.
func averaged(cur, prev domain.Metric) float64 {
	if prev.Valid {
		return (cur.Value + prev.Value) / 2
	}
	return cur.Value
}

func growth(cur, prev domain.Metric) domain.Metric {
	if !cur.Valid || !prev.Valid {
		return domain.Undefined
	}
	return domain.YoYGrowth(cur.Value, prev.Value)
}

func cagr(start, end domain.Metric, years int) domain.Metric {
	if !start.Valid || !end.Valid {
		return domain.Undefined
	}
	return domain.CAGR(start.Value, end.Value, years)
}
