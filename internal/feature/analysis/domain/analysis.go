package domain

// Snapshot holds the key account amounts of one fiscal year. Accounts
// absent from the stored statements are undefined.
type Snapshot struct {
	CorpCode           string `json:"corp_code"`
	Year               int    `json:"year"`
	TotalAssets        Metric `json:"total_assets"`
	TotalLiabilities   Metric `json:"total_liabilities"`
	TotalEquity        Metric `json:"total_equity"`
	CurrentAssets      Metric `json:"current_assets"`
	CurrentLiabilities Metric `json:"current_liabilities"`
	Revenue            Metric `json:"revenue"`
	OperatingIncome    Metric `json:"operating_income"`
	NetIncome          Metric `json:"net_income"`
}

// RatioSet holds the financial ratios of one fiscal year, in percent.
type RatioSet struct {
	Year            int    `json:"year"`
	DebtRatio       Metric `json:"debt_ratio"`
	CurrentRatio    Metric `json:"current_ratio"`
	OperatingMargin Metric `json:"operating_margin"`
	NetMargin       Metric `json:"net_margin"`
	ROE             Metric `json:"roe"`
	ROA             Metric `json:"roa"`
}

// GrowthSet holds year-over-year growth rates against the prior fiscal
// year, in percent. All fields are undefined when no prior year exists.
type GrowthSet struct {
	Year                  int    `json:"year"`
	RevenueGrowth         Metric `json:"revenue_growth"`
	OperatingIncomeGrowth Metric `json:"operating_income_growth"`
	NetIncomeGrowth       Metric `json:"net_income_growth"`
	AssetGrowth           Metric `json:"asset_growth"`
}

// CAGRSet holds compound annual growth rates over the full stored range.
type CAGRSet struct {
	StartYear     int    `json:"start_year"`
	EndYear       int    `json:"end_year"`
	RevenueCAGR   Metric `json:"revenue_cagr"`
	NetIncomeCAGR Metric `json:"net_income_cagr"`
	AssetCAGR     Metric `json:"asset_cagr"`
}

// TrendPoint is one year of a metric series.
type TrendPoint struct {
	Year  int    `json:"year"`
	Value Metric `json:"value"`
}

// Summary bundles the full analysis of one corporation and year.
type Summary struct {
	CorpCode string      `json:"corp_code"`
	CorpName string      `json:"corp_name"`
	Year     int         `json:"year"`
	Snapshot Snapshot    `json:"snapshot"`
	Ratios   RatioSet    `json:"ratios"`
	Growth   GrowthSet   `json:"growth"`
	CAGR     CAGRSet     `json:"cagr"`
	Health   HealthScore `json:"health"`
}
