// Package entity defines the persisted domain models for the sync feature.
package entity

import "time"

// Sync operations recorded in the log.
const (
	OpCorporationList = "corporation_list"
	OpStatements      = "financial_statements"
)

// Outcome is the terminal state of a single sync unit.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// SyncLogEntry is one append-only audit row for a sync unit attempt.
// Entries are never updated or deleted; retry analysis reads the stream
// in insertion order.
type SyncLogEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"not null;index"`
	CorpCode  string    `gorm:"size:8;index"`
	Operation string    `gorm:"size:32;not null"`
	Outcome   Outcome   `gorm:"size:16;not null"`
	Detail    string    `gorm:"size:1024"`
}
