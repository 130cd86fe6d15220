package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Ayoublby/full-store/internal/domain"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// SortKey selects the comparator used by Filter.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
	SortFeatured  SortKey = "featured"
	SortDate      SortKey = "date"
	SortNewest    SortKey = "newest"
)

// Catalog holds the product list for the current session and answers
// filter/search/sort queries over it. Load replaces the list wholesale;
// queries never mutate it.
type Catalog struct {
	products []domain.Product
}

func New() *Catalog {
	return &Catalog{}
}

// Load replaces the in-memory product list. It does not merge.
func (c *Catalog) Load(records []domain.Product) {
	c.products = make([]domain.Product, len(records))
	copy(c.products, records)
}

// Len reports the number of loaded products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// GetByID returns the product with the given id or domain.ErrNotFound.
func (c *Catalog) GetByID(id string) (*domain.Product, error) {
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Filter narrows the loaded list by category and search term and orders the
// result by sortBy. Category "all" passes everything; an empty search term
// matches everything. Search is a case-insensitive substring match against
// name, description, or the category display label.
func (c *Catalog) Filter(category, searchTerm string, sortBy SortKey) []domain.Product {
	filtered := make([]domain.Product, 0, len(c.products))

	term := strings.ToLower(strings.TrimSpace(searchTerm))
	for _, p := range c.products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, sortBy)
	return filtered
}

// FilterByPage keeps products visible on the given page scope.
func FilterByPage(products []domain.Product, page string) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.VisibleOn(page) {
			result = append(result, p)
		}
	}
	return result
}

func matchesSearch(p domain.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	if label, ok := domain.Categories[p.Category]; ok {
		return strings.Contains(strings.ToLower(label), term)
	}
	return false
}

func sortProducts(products []domain.Product, sortBy SortKey) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortName:
		col := collate.New(language.Und, collate.Loose)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortFeatured:
		col := collate.New(language.Und, collate.Loose)
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Featured != products[j].Featured {
				return products[i].Featured
			}
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortDate, SortNewest:
		fallthrough
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SortDate().After(products[j].SortDate())
		})
	}
}
