// Package checkout turns a cart snapshot plus customer details into an
// order record and a human-readable message. It performs no network or
// storage access; delivering the message is the caller's concern.
package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Ayoublby/full-store/internal/domain"
)

// Composer formats orders for a single merchant.
type Composer struct {
	StoreName string
	Currency  string
}

// NewComposer returns a Composer with defaults applied.
func NewComposer(storeName, currency string) Composer {
	if storeName == "" {
		storeName = "Full Store"
	}
	if currency == "" {
		currency = "LYD"
	}
	return Composer{StoreName: storeName, Currency: currency}
}

// Compose validates the customer fields and builds the order record and the
// order message. The cart must be non-empty and name and address must not be
// blank; violations return domain.ErrValidation.
func (c Composer) Compose(items []domain.CartLineItem, total float64, customer domain.CustomerInfo) (*domain.Order, string, error) {
	if len(items) == 0 {
		return nil, "", fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Address = strings.TrimSpace(customer.Address)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.Name == "" {
		return nil, "", fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	if customer.Address == "" {
		return nil, "", fmt.Errorf("%w: customer address is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OrderID:      fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Items:        append([]domain.CartLineItem(nil), items...),
		Total:        total,
		CustomerInfo: customer,
		OrderDate:    now,
	}

	return order, c.message(order), nil
}

func (c Composer) message(order *domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order for %s\n\n", c.StoreName)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerInfo.Name)
	fmt.Fprintf(&b, "Address: %s\n", order.CustomerInfo.Address)
	if order.CustomerInfo.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", order.CustomerInfo.Phone)
	}

	b.WriteString("\nOrder details:\n")
	b.WriteString(divider)
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Product.Name)
		fmt.Fprintf(&b, "   Quantity: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Price: %s\n", c.FormatPrice(item.Price))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", c.FormatPrice(item.Subtotal()))
	}
	b.WriteString(divider)
	fmt.Fprintf(&b, "Grand total: %s\n", c.FormatPrice(order.Total))
	fmt.Fprintf(&b, "Order date: %s\n\n", order.OrderDate.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Thank you for shopping with %s!", c.StoreName)

	return b.String()
}

const divider = "--------------------\n"

// FormatPrice renders a price with the merchant currency.
func (c Composer) FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f %s", price, c.Currency)
}

// HandoffURL builds the messaging-app URL that opens a chat with the
// merchant pre-filled with the order message.
func HandoffURL(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
