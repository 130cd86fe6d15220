package product

import (
	"context"

	"github.com/Ayoublby/full-store/internal/domain"
)

// Repository owns the canonical product list. Every mutation persists the
// canonical store and regenerates the mirror artifact before returning.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, fields domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkUpdate(ctx context.Context, ids []string, patch domain.ProductPatch) (int, error)
	BulkDelete(ctx context.Context, ids []string) (int, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}
