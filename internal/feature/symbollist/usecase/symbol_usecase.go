// Package usecase implements the business logic for the symbol catalog.
package usecase

import (
	"context"
	"fmt"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for the symbol catalog.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	UpsertCodes(ctx context.Context, codes []string) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// IngestSymbols returns the provider keys to ingest. Catalog entries win when any exist;
// otherwise fallback (the configured list) is returned unchanged.
func (u *SymbolUsecase) IngestSymbols(ctx context.Context, fallback []string) ([]string, error) {
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog codes: %w", err)
	}
	if len(codes) == 0 {
		return fallback, nil
	}
	return codes, nil
}

// Seed registers codes in the catalog, keeping their order.
func (u *SymbolUsecase) Seed(ctx context.Context, codes []string) error {
	if err := u.repo.UpsertCodes(ctx, codes); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
