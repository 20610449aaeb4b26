// Package adapters provides the repository implementations for the sync
// feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"disclosure_backend/internal/feature/sync/domain/entity"
	"disclosure_backend/internal/feature/sync/usecase"
)

type syncLogGorm struct {
	db *gorm.DB
}

var _ usecase.SyncLogRepository = (*syncLogGorm)(nil)

// NewSyncLogRepository creates a sync log repository on the given DB.
func NewSyncLogRepository(db *gorm.DB) *syncLogGorm {
	return &syncLogGorm{db: db}
}

// Append inserts a log entry. Entries are never updated or deleted.
func (r *syncLogGorm) Append(ctx context.Context, e entity.SyncLogEntry) error {
	return r.db.WithContext(ctx).Create(&e).Error
}

// Recent returns the latest entries, newest first.
func (r *syncLogGorm) Recent(ctx context.Context, limit int) ([]entity.SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []entity.SyncLogEntry
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ByCorp returns every entry for one corporation in insertion order, for
// retry analysis.
func (r *syncLogGorm) ByCorp(ctx context.Context, corpCode string) ([]entity.SyncLogEntry, error) {
	var rows []entity.SyncLogEntry
	if err := r.db.WithContext(ctx).
		Where("corp_code = ?", corpCode).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
