// Package usecase implements the business logic for corporation registry
// operations.
package usecase

import (
	"context"
	"errors"

	"disclosure_backend/internal/feature/corporations/domain/entity"
)

const (
	// DefaultListLimit bounds unfiltered listing responses.
	DefaultListLimit = 100
	// MaxListLimit is the hard ceiling for a single listing request.
	MaxListLimit = 1000
)

// ErrCorporationNotFound is returned when no corporation matches the
// requested registry code.
var ErrCorporationNotFound = errors.New("corporation not found")

// CorporationRepository abstracts the persistence layer for corporations.
// Following Go convention: interfaces are defined by the consumer
// (usecase), not the provider (adapters).
type CorporationRepository interface {
	UpsertBatch(ctx context.Context, corps []entity.Corporation) error
	FindByCode(ctx context.Context, corpCode string) (*entity.Corporation, error)
	List(ctx context.Context, market string, limit int) ([]entity.Corporation, error)
	SearchByName(ctx context.Context, query string, limit int) ([]entity.Corporation, error)
	ListedCodes(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// CorporationUsecase provides read access to the synced registry.
type CorporationUsecase struct {
	repo CorporationRepository
}

// NewCorporationUsecase creates a CorporationUsecase with the given
// repository.
func NewCorporationUsecase(r CorporationRepository) *CorporationUsecase {
	return &CorporationUsecase{repo: r}
}

// Get returns a single corporation by registry code.
func (u *CorporationUsecase) Get(ctx context.Context, corpCode string) (*entity.Corporation, error) {
	return u.repo.FindByCode(ctx, corpCode)
}

// List returns corporations for a market (all markets when empty).
func (u *CorporationUsecase) List(ctx context.Context, market string, limit int) ([]entity.Corporation, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return u.repo.List(ctx, market, limit)
}

// Search returns corporations whose name contains query.
func (u *CorporationUsecase) Search(ctx context.Context, query string, limit int) ([]entity.Corporation, error) {
	if query == "" {
		return []entity.Corporation{}, nil
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return u.repo.SearchByName(ctx, query, limit)
}

// Count returns the number of synced corporations.
func (u *CorporationUsecase) Count(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}
