package domain

import "math"

// Ratio divides num by den as a percentage. Undefined when den is zero.
func Ratio(num, den float64) Metric {
	if den == 0 {
		return Undefined
	}
	return Defined(num / den * 100)
}

// DebtRatio is total liabilities over total equity, as a percentage.
func DebtRatio(totalLiabilities, totalEquity float64) Metric {
	return Ratio(totalLiabilities, totalEquity)
}

// CurrentRatio is current assets over current liabilities, as a percentage.
func CurrentRatio(currentAssets, currentLiabilities float64) Metric {
	return Ratio(currentAssets, currentLiabilities)
}

// OperatingMargin is operating income over revenue, as a percentage.
func OperatingMargin(operatingIncome, revenue float64) Metric {
	return Ratio(operatingIncome, revenue)
}

// NetMargin is net income over revenue, as a percentage.
func NetMargin(netIncome, revenue float64) Metric {
	return Ratio(netIncome, revenue)
}

// ROE is net income over equity, as a percentage. Callers pass the
// average of opening and closing equity when both years are available.
func ROE(netIncome, equity float64) Metric {
	return Ratio(netIncome, equity)
}

// ROA is net income over total assets, as a percentage.
func ROA(netIncome, totalAssets float64) Metric {
	return Ratio(netIncome, totalAssets)
}

// YoYGrowth is the year-over-year change from prev to cur, as a
// percentage of the magnitude of prev. Undefined when prev is zero.
func YoYGrowth(cur, prev float64) Metric {
	if prev == 0 {
		return Undefined
	}
	return Defined((cur - prev) / math.Abs(prev) * 100)
}

// CAGR is the compound annual growth rate from start to end over the
// given number of years, as a percentage. Undefined when start is not
// positive, end is negative, or years is not positive.
func CAGR(start, end float64, years int) Metric {
	if start <= 0 || end < 0 || years <= 0 {
		return Undefined
	}
	return Defined((math.Pow(end/start, 1/float64(years)) - 1) * 100)
}
