package domain

import "time"

// Category values a product may carry. The set is fixed; the storefront
// renders one page per category plus the combined listings.
const (
	CategoryElectronics = "electronics"
	CategoryTools       = "tools"
	CategoryClothes     = "clothes"
	CategoryRandom      = "random"
)

// Categories maps each category to its display label. Search matches
// against the label as well as name and description.
var Categories = map[string]string{
	CategoryElectronics: "Electronics",
	CategoryTools:       "Tools",
	CategoryClothes:     "Clothes",
	CategoryRandom:      "Miscellaneous",
}

// Product is a single catalog record. The ID is immutable after creation;
// AddedDate and UpdatedDate are assigned server-side.
//
// OriginalPrice and Discount form a display-only pair: nothing enforces
// price == originalPrice * (1 - discount/100), matching the admin panel
// contract. LimitedQuantity is advisory text and is never decremented.
type Product struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	OriginalPrice   float64    `json:"originalPrice,omitempty"`
	Discount        float64    `json:"discount,omitempty"`
	Category        string     `json:"category"`
	Images          []string   `json:"images"`
	InStock         bool       `json:"inStock"`
	Featured        bool       `json:"featured"`
	LimitedQuantity int        `json:"limitedQuantity,omitempty"`
	ShowInPages     []string   `json:"showInPages,omitempty"`
	AddedDate       *time.Time `json:"addedDate,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedDate     *time.Time `json:"updatedDate,omitempty"`
}

// VisibleOn reports whether the product should appear on the given page.
// An absent or empty ShowInPages set means "visible everywhere".
func (p Product) VisibleOn(page string) bool {
	if len(p.ShowInPages) == 0 {
		return true
	}
	for _, scope := range p.ShowInPages {
		if scope == page {
			return true
		}
	}
	return false
}

// SortDate is the timestamp used for newest-first ordering: AddedDate,
// falling back to CreatedAt, falling back to the zero time.
func (p Product) SortDate() time.Time {
	if p.AddedDate != nil {
		return *p.AddedDate
	}
	if p.CreatedAt != nil {
		return *p.CreatedAt
	}
	return time.Time{}
}

// ProductPatch is a partial update: nil fields are left untouched, non-nil
// fields overwrite the stored value. ID and server-assigned dates cannot be
// patched.
type ProductPatch struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	OriginalPrice   *float64  `json:"originalPrice,omitempty"`
	Discount        *float64  `json:"discount,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Images          *[]string `json:"images,omitempty"`
	InStock         *bool     `json:"inStock,omitempty"`
	Featured        *bool     `json:"featured,omitempty"`
	LimitedQuantity *int      `json:"limitedQuantity,omitempty"`
	ShowInPages     *[]string `json:"showInPages,omitempty"`
}

// Apply merges the patch over the product, preserving identity.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		p.OriginalPrice = *patch.OriginalPrice
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.LimitedQuantity != nil {
		p.LimitedQuantity = *patch.LimitedQuantity
	}
	if patch.ShowInPages != nil {
		p.ShowInPages = *patch.ShowInPages
	}
}

// Stats aggregates catalog counts for the admin dashboard.
type Stats struct {
	Total      int            `json:"total"`
	InStock    int            `json:"inStock"`
	OutOfStock int            `json:"outOfStock"`
	Featured   int            `json:"featured"`
	Categories int            `json:"categories"`
	ByCategory map[string]int `json:"byCategory"`
}
