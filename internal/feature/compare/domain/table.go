package domain

import analysis "disclosure_backend/internal/feature/analysis/domain"

// CorpColumn identifies one corporation column of a comparison table.
type CorpColumn struct {
	CorpCode string `json:"corp_code"`
	CorpName string `json:"corp_name"`
}

// MetricRow is one metric across every selected corporation. Values is
// index-aligned with the table's Corps.
type MetricRow struct {
	Metric string            `json:"metric"`
	Values []analysis.Metric `json:"values"`
}

// Table is a rows-per-metric comparison of the selected corporations
// for one fiscal year.
type Table struct {
	Year  int          `json:"year"`
	Corps []CorpColumn `json:"corps"`
	Rows  []MetricRow  `json:"rows"`
}

// RankEntry is one corporation's position in a metric ranking. Rank is
// zero for corporations whose metric is undefined.
type RankEntry struct {
	Rank     int             `json:"rank"`
	CorpCode string          `json:"corp_code"`
	CorpName string          `json:"corp_name"`
	Value    analysis.Metric `json:"value"`
}

// MetricStats summarizes one metric across the selection. Best names
// the top-ranked corporation, empty when no value is defined.
type MetricStats struct {
	Metric string          `json:"metric"`
	Min    analysis.Metric `json:"min"`
	Max    analysis.Metric `json:"max"`
	Avg    analysis.Metric `json:"avg"`
	Median analysis.Metric `json:"median"`
	Best   string          `json:"best"`
}
