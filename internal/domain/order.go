package domain

import "time"

// CustomerInfo is the checkout form input. Name and Address are required,
// Phone is optional.
type CustomerInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

// Order is a write-once record of a completed checkout. It is appended to a
// bounded most-recent-first history and never mutated afterwards.
type Order struct {
	OrderID      string         `json:"orderId"`
	Items        []CartLineItem `json:"items"`
	Total        float64        `json:"total"`
	CustomerInfo CustomerInfo   `json:"customerInfo"`
	OrderDate    time.Time      `json:"orderDate"`
}

// OrderHistoryLimit caps the retained order history; the oldest entries are
// dropped on overflow.
const OrderHistoryLimit = 10
