package seed

import (
	"context"
	"fmt"

	"github.com/Ayoublby/full-store/internal/domain"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

// Apply inserts a starter catalog for manual testing. It is idempotent: a
// store that already holds products is left untouched.
func Apply(ctx context.Context, repo productrepo.Repository) (int, error) {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	products := []domain.Product{
		{
			Name:            "90W Fast Charger",
			Description:     "Original 90W charger with fast-charging support, compatible with most Android phones.",
			Price:           70,
			OriginalPrice:   90,
			Discount:        22.2,
			Category:        domain.CategoryElectronics,
			Images:          []string{},
			InStock:         true,
			Featured:        true,
			LimitedQuantity: 5,
			ShowInPages:     []string{"index", "products", "electronics"},
		},
		{
			Name:        "Cordless Drill 20V",
			Description: "Compact 20V cordless drill with two batteries and a 25-piece bit set.",
			Price:       39,
			Category:    domain.CategoryTools,
			Images:      []string{},
			InStock:     true,
			Featured:    true,
			ShowInPages: []string{"index", "products", "tools"},
		},
		{
			Name:        "Denim Jacket",
			Description: "Loose-fit cotton denim jacket with a hood, sizes up to 5XL.",
			Price:       160,
			Category:    domain.CategoryClothes,
			Images:      []string{},
			InStock:     true,
			ShowInPages: []string{"index", "products", "clothes"},
		},
		{
			Name:        "Desk Organizer Set",
			Description: "Five-piece desk organizer set in matte black.",
			Price:       25,
			Category:    domain.CategoryRandom,
			Images:      []string{},
			InStock:     false,
			ShowInPages: []string{"products", "random"},
		},
	}

	for _, p := range products {
		if _, err := repo.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}
	return len(products), nil
}
