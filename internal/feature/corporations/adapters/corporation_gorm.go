// Package adapters provides the repository implementation for the
// corporations feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disclosure_backend/internal/feature/corporations/domain/entity"
	"disclosure_backend/internal/feature/corporations/usecase"
)

type corporationGorm struct {
	db *gorm.DB
}

var _ usecase.CorporationRepository = (*corporationGorm)(nil)

// NewCorporationRepository creates a corporation repository on the given DB.
func NewCorporationRepository(db *gorm.DB) *corporationGorm {
	return &corporationGorm{db: db}
}

// UpsertBatch inserts corporations, refreshing the descriptive columns on
// corp_code conflict. The registry identity itself never changes.
func (r *corporationGorm) UpsertBatch(ctx context.Context, corps []entity.Corporation) error {
	if len(corps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "corp_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"corp_name", "stock_code", "corp_cls", "market", "sector"}),
	}).Create(&corps).Error
}

// FindByCode returns the corporation with the given registry code, or
// usecase.ErrCorporationNotFound.
func (r *corporationGorm) FindByCode(ctx context.Context, corpCode string) (*entity.Corporation, error) {
	var corp entity.Corporation
	err := r.db.WithContext(ctx).Where("corp_code = ?", corpCode).First(&corp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrCorporationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &corp, nil
}

// List returns corporations, optionally filtered by market name, ordered
// by corp_code.
func (r *corporationGorm) List(ctx context.Context, market string, limit int) ([]entity.Corporation, error) {
	var corps []entity.Corporation
	q := r.db.WithContext(ctx).Order("corp_code ASC")
	if market != "" {
		q = q.Where("market = ?", market)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&corps).Error; err != nil {
		return nil, err
	}
	return corps, nil
}

// SearchByName returns corporations whose name contains the query,
// case-sensitive as stored by the registry.
func (r *corporationGorm) SearchByName(ctx context.Context, query string, limit int) ([]entity.Corporation, error) {
	var corps []entity.Corporation
	q := r.db.WithContext(ctx).
		Where("corp_name LIKE ?", "%"+query+"%").
		Order("corp_name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&corps).Error; err != nil {
		return nil, err
	}
	return corps, nil
}

// ListedCodes returns the corp codes of all listed corporations, ordered
// by corp_code. Statement syncs iterate these.
func (r *corporationGorm) ListedCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Corporation{}).
		Where("stock_code <> ''").
		Order("corp_code ASC").
		Pluck("corp_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Count returns the number of stored corporations.
func (r *corporationGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Corporation{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
