package domain

import "time"

// CartLineItem is one row in the cart. Product is a snapshot taken at
// add-time for display; Price is the unit price captured at the same moment
// and does not follow later catalog edits.
type CartLineItem struct {
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	AddedAt   time.Time `json:"addedAt"`
}

// Subtotal is the line's contribution to the cart total.
func (li CartLineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// CartSnapshot is the unit of cart persistence: the whole cart is written
// after every mutation, never deltas.
type CartSnapshot struct {
	Items       []CartLineItem `json:"items"`
	Total       float64        `json:"total"`
	LastUpdated time.Time      `json:"lastUpdated"`
}
