// Package entity defines the domain models for the statements feature.
package entity

// Statement divisions (sj_div) used by the disclosure registry.
const (
	StmtBalanceSheet    = "BS"  // statement of financial position
	StmtIncome          = "IS"  // income statement
	StmtComprehensive   = "CIS" // statement of comprehensive income
	StmtCashFlow        = "CF"  // statement of cash flows
	FsDivConsolidated   = "CFS"
	FsDivSeparate       = "OFS"
	ReportAnnual        = "11011"
	ReportHalf          = "11012"
	ReportFirstQuarter  = "11013"
	ReportThirdQuarter  = "11014"
)

// Key account names (Korean, as published by the registry) used for
// ratio and growth analysis.
const (
	AccountTotalAssets        = "자산총계"
	AccountTotalLiabilities   = "부채총계"
	AccountTotalEquity        = "자본총계"
	AccountCurrentAssets      = "유동자산"
	AccountCurrentLiabilities = "유동부채"
	AccountRevenue            = "매출액"
	AccountOperatingIncome    = "영업이익"
	AccountNetIncome          = "당기순이익"
)

// AccountAliases lists alternative registry spellings for the same concept.
// Filers are inconsistent about parenthesised loss qualifiers and the
// revenue/operating-revenue split.
var AccountAliases = map[string][]string{
	AccountRevenue:         {AccountRevenue, "영업수익", "수익(매출액)"},
	AccountOperatingIncome: {AccountOperatingIncome, "영업이익(손실)"},
	AccountNetIncome:       {AccountNetIncome, "당기순이익(손실)", "분기순이익"},
}

// Statement is a single financial-statement account row for a corporation
// and fiscal year. The tuple (CorpCode, BsnsYear, ReprtCode, FsDiv, SjDiv,
// AccountName) is unique; re-syncing the same tuple overwrites Amount.
type Statement struct {
	CorpCode    string // registry corporation code (8 digits)
	BsnsYear    int    // fiscal year
	ReprtCode   string // report code (11011 = annual)
	FsDiv       string // CFS (consolidated) or OFS (separate)
	SjDiv       string // statement division (BS/IS/CIS/CF)
	AccountID   string // XBRL concept id when published, else blank
	AccountName string // account label as filed
	Amount      int64  // current-term amount in KRW
	Currency    string // ISO currency, normally KRW
	Ord         int    // display order within the statement
}
