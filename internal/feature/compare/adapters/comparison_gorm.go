package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disclosure_backend/internal/feature/compare/domain"
	"disclosure_backend/internal/feature/compare/domain/entity"
	"disclosure_backend/internal/feature/compare/usecase"
)

// ComparisonSetModel is the GORM representation of a saved selection.
// Corp codes are stored as a JSON array to keep the snapshot atomic.
type ComparisonSetModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;uniqueIndex"`
	CorpCodes string `gorm:"size:256"`
	UpdatedAt time.Time
}

// TableName maps the model to the comparison_sets table.
func (ComparisonSetModel) TableName() string {
	return "comparison_sets"
}

type comparisonGorm struct {
	db *gorm.DB
}

var _ usecase.ComparisonSetRepository = (*comparisonGorm)(nil)

// NewComparisonGorm creates a GORM-backed comparison set repository.
func NewComparisonGorm(db *gorm.DB) usecase.ComparisonSetRepository {
	return &comparisonGorm{db: db}
}

// Save upserts the set by name.
func (r *comparisonGorm) Save(ctx context.Context, set entity.ComparisonSet) error {
	codes, err := json.Marshal(set.CorpCodes)
	if err != nil {
		return fmt.Errorf("encode corp codes: %w", err)
	}
	m := ComparisonSetModel{
		Name:      set.Name,
		CorpCodes: string(codes),
		UpdatedAt: set.UpdatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"corp_codes", "updated_at"}),
		}).
		Create(&m).Error
}

// FindByName loads one saved set.
func (r *comparisonGorm) FindByName(ctx context.Context, name string) (*entity.ComparisonSet, error) {
	var m ComparisonSetModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", domain.ErrSetNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return toComparisonEntity(m)
}

// List returns every saved set, most recently updated first.
func (r *comparisonGorm) List(ctx context.Context) ([]entity.ComparisonSet, error) {
	var models []ComparisonSetModel
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	sets := make([]entity.ComparisonSet, 0, len(models))
	for _, m := range models {
		set, err := toComparisonEntity(m)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *set)
	}
	return sets, nil
}

// Delete removes a saved set by name. Deleting an absent set fails
// with domain.ErrSetNotFound.
func (r *comparisonGorm) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&ComparisonSetModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", domain.ErrSetNotFound, name)
	}
	return nil
}

func toComparisonEntity(m ComparisonSetModel) (*entity.ComparisonSet, error) {
	var codes []string
	if err := json.Unmarshal([]byte(m.CorpCodes), &codes); err != nil {
		return nil, fmt.Errorf("decode corp codes: %w", err)
	}
	return &entity.ComparisonSet{Name: m.Name, CorpCodes: codes, UpdatedAt: m.UpdatedAt}, nil
}
