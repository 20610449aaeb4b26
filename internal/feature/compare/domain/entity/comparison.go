package entity

import "time"

// ComparisonSet is a named snapshot of a comparison selection.
// CorpCodes preserves insertion order.
type ComparisonSet struct {
	Name      string
	CorpCodes []string
	UpdatedAt time.Time
}
