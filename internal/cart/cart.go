// Package cart implements the shopping cart: ordered line items keyed by
// product id, quantity bounds, a derived total that is recomputed after
// every mutation, full-snapshot persistence, and the inactivity timeout.
//
// The cart owns no UI; callers drive it through its command methods and
// observe it through the Notifier port.
package cart

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/checkout"
	"github.com/Ayoublby/full-store/internal/domain"
)

// MaxQuantity is the upper bound for a single line item.
const MaxQuantity = 99

// ProductSource resolves product ids to their current catalog records.
type ProductSource interface {
	GetByID(id string) (*domain.Product, error)
}

// Store persists cart and order snapshots. A Load of a never-written key
// returns (nil, nil).
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Sender delivers the composed order message. Delivery is fire-and-forget:
// failures are surfaced to the user but never retried.
type Sender interface {
	Send(message string) error
}

// Options tune persistence keys and timers. Zero values fall back to the
// storefront defaults.
type Options struct {
	CartKey           string
	OrdersKey         string
	ClearDelay        time.Duration
	InactivityTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.CartKey == "" {
		o.CartKey = "fullstore_cart"
	}
	if o.OrdersKey == "" {
		o.OrdersKey = "fullstore_orders"
	}
	if o.ClearDelay == 0 {
		o.ClearDelay = 3 * time.Second
	}
	if o.InactivityTimeout == 0 {
		o.InactivityTimeout = 30 * time.Minute
	}
	return o
}

// Deps are the collaborators a Cart needs.
type Deps struct {
	Products ProductSource
	Store    Store
	Notifier Notifier
	Sender   Sender
	Composer checkout.Composer
	Logger   zerolog.Logger
}

// Cart is the shopping cart for one session.
type Cart struct {
	mu       sync.Mutex
	products ProductSource
	store    Store
	notifier Notifier
	sender   Sender
	composer checkout.Composer
	logger   zerolog.Logger
	opts     Options

	items      []domain.CartLineItem
	total      float64
	inactivity *time.Timer
}

// New restores the cart from its persisted snapshot (a missing or corrupt
// snapshot starts the cart empty, never fails) and arms the inactivity
// timer.
func New(deps Deps, opts Options) *Cart {
	c := &Cart{
		products: deps.Products,
		store:    deps.Store,
		notifier: deps.Notifier,
		sender:   deps.Sender,
		composer: deps.Composer,
		logger:   deps.Logger.With().Str("component", "cart").Logger(),
		opts:     opts.withDefaults(),
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.logger}
	}

	c.restore()
	c.inactivity = time.AfterFunc(c.opts.InactivityTimeout, c.expire)
	return c
}

// Close stops the inactivity timer.
func (c *Cart) Close() {
	c.inactivity.Stop()
}

// Touch marks user activity, pushing the inactivity deadline out.
func (c *Cart) Touch() {
	c.inactivity.Reset(c.opts.InactivityTimeout)
}

// AddItem puts the product in the cart, incrementing the existing line's
// quantity when the product is already present. Unknown or out-of-stock
// products leave the cart untouched and surface a warning. A quantity below
// one is treated as one.
func (c *Cart) AddItem(productID string, quantity int) {
	c.Touch()
	if quantity < 1 {
		quantity = 1
	}

	product, err := c.products.GetByID(productID)
	if err != nil {
		c.notifier.Notify(LevelError, "product not found")
		return
	}
	if !product.InStock {
		c.notifier.Notify(LevelWarning, "this product is currently unavailable")
		return
	}

	c.mu.Lock()
	if line := c.find(productID); line != nil {
		line.Quantity += quantity
		if line.Quantity > MaxQuantity {
			line.Quantity = MaxQuantity
			c.notifier.Notify(LevelWarning, "maximum quantity is 99")
		}
	} else {
		c.items = append(c.items, domain.CartLineItem{
			ProductID: productID,
			Product:   *product,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   time.Now().UTC(),
		})
	}
	c.recompute()
	c.persist()
	c.mu.Unlock()

	c.notifier.Notify(LevelSuccess, product.Name+" added to cart")
}

// RemoveItem deletes the product's line; it is a no-op when absent.
func (c *Cart) RemoveItem(productID string) {
	c.Touch()

	c.mu.Lock()
	var removed *domain.CartLineItem
	for i := range c.items {
		if c.items[i].ProductID == productID {
			line := c.items[i]
			removed = &line
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if removed == nil {
		c.mu.Unlock()
		return
	}
	c.recompute()
	c.persist()
	c.mu.Unlock()

	c.notifier.Notify(LevelInfo, removed.Product.Name+" removed from cart")
}

// UpdateQuantity sets the line's quantity. Zero or negative removes the
// line; values above MaxQuantity are clamped with a warning.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	c.Touch()
	if quantity > MaxQuantity {
		quantity = MaxQuantity
		c.notifier.Notify(LevelWarning, "maximum quantity is 99")
	}

	c.mu.Lock()
	line := c.find(productID)
	if line == nil {
		c.mu.Unlock()
		return
	}
	old := line.Quantity
	line.Quantity = quantity
	name := line.Product.Name
	c.recompute()
	c.persist()
	c.mu.Unlock()

	switch {
	case quantity > old:
		c.notifier.Notify(LevelSuccess, "increased quantity of "+name)
	case quantity < old:
		c.notifier.Notify(LevelInfo, "decreased quantity of "+name)
	}
}

// IncreaseQuantity bumps the line's quantity by one.
func (c *Cart) IncreaseQuantity(productID string) {
	c.mu.Lock()
	line := c.find(productID)
	if line == nil {
		c.mu.Unlock()
		return
	}
	next := line.Quantity + 1
	c.mu.Unlock()
	c.UpdateQuantity(productID, next)
}

// DecreaseQuantity lowers the line's quantity by one; reaching zero removes
// the line.
func (c *Cart) DecreaseQuantity(productID string) {
	c.mu.Lock()
	line := c.find(productID)
	if line == nil {
		c.mu.Unlock()
		return
	}
	next := line.Quantity - 1
	c.mu.Unlock()
	c.UpdateQuantity(productID, next)
}

// Clear empties the cart and persists the empty snapshot.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()

	c.notifier.Notify(LevelInfo, "cart cleared")
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []domain.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.CartLineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total returns the derived cart total.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Checkout composes the order, appends it to the bounded order history,
// hands the message to the Sender, and schedules the cart to clear after the
// configured delay so the handoff can complete first. Validation failures
// surface as warnings and leave the cart untouched.
func (c *Cart) Checkout(customer domain.CustomerInfo) (*domain.Order, error) {
	c.Touch()

	c.mu.Lock()
	items := make([]domain.CartLineItem, len(c.items))
	copy(items, c.items)
	total := c.total
	c.mu.Unlock()

	order, message, err := c.composer.Compose(items, total, customer)
	if err != nil {
		c.notifier.Notify(LevelWarning, err.Error())
		return nil, err
	}

	c.saveOrder(order)

	if c.sender != nil {
		if err := c.sender.Send(message); err != nil {
			c.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("order handoff failed")
			c.notifier.Notify(LevelError, "could not open the order handoff")
			return nil, err
		}
	}

	c.notifier.Notify(LevelSuccess, "redirecting you to complete the order")
	time.AfterFunc(c.opts.ClearDelay, c.Clear)

	return order, nil
}

// find returns the line for productID, or nil. Callers hold the lock.
func (c *Cart) find(productID string) *domain.CartLineItem {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return &c.items[i]
		}
	}
	return nil
}

// recompute rebuilds the derived total from the line items. Callers hold
// the lock.
func (c *Cart) recompute() {
	total := 0.0
	for _, item := range c.items {
		total += item.Subtotal()
	}
	c.total = total
}

// persist writes the full cart snapshot. Persistence failures are logged
// and otherwise ignored; the in-memory cart stays authoritative for the
// session. Callers hold the lock.
func (c *Cart) persist() {
	snapshot := domain.CartSnapshot{
		Items:       c.items,
		Total:       c.total,
		LastUpdated: time.Now().UTC(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Error().Err(err).Msg("marshal cart snapshot")
		return
	}
	if err := c.store.Save(c.opts.CartKey, data); err != nil {
		c.logger.Error().Err(err).Msg("persist cart snapshot")
	}
}

func (c *Cart) clearLocked() {
	c.items = nil
	c.total = 0
	c.persist()
}

// restore loads the persisted snapshot; absence or corruption starts the
// cart empty. The total is always recomputed from the restored items rather
// than trusted from the snapshot.
func (c *Cart) restore() {
	data, err := c.store.Load(c.opts.CartKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("load cart snapshot, starting empty")
		return
	}
	if len(data) == 0 {
		return
	}
	var snapshot domain.CartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn().Err(err).Msg("corrupt cart snapshot, starting empty")
		return
	}
	c.items = snapshot.Items
	c.recompute()
}

// saveOrder prepends the order to the history, trimming it to
// domain.OrderHistoryLimit entries.
func (c *Cart) saveOrder(order *domain.Order) {
	var orders []domain.Order
	if data, err := c.store.Load(c.opts.OrdersKey); err != nil {
		c.logger.Warn().Err(err).Msg("load order history")
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &orders); err != nil {
			c.logger.Warn().Err(err).Msg("corrupt order history, resetting")
			orders = nil
		}
	}

	orders = append([]domain.Order{*order}, orders...)
	if len(orders) > domain.OrderHistoryLimit {
		orders = orders[:domain.OrderHistoryLimit]
	}

	data, err := json.Marshal(orders)
	if err != nil {
		c.logger.Error().Err(err).Msg("marshal order history")
		return
	}
	if err := c.store.Save(c.opts.OrdersKey, data); err != nil {
		c.logger.Error().Err(err).Msg("persist order history")
	}
}

// Orders returns the persisted order history, most recent first.
func (c *Cart) Orders() []domain.Order {
	data, err := c.store.Load(c.opts.OrdersKey)
	if err != nil || len(data) == 0 {
		return nil
	}
	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil
	}
	return orders
}

// expire clears a non-empty cart after the inactivity window passes.
func (c *Cart) expire() {
	c.mu.Lock()
	empty := len(c.items) == 0
	if !empty {
		c.clearLocked()
	}
	c.mu.Unlock()

	if !empty {
		c.notifier.Notify(LevelInfo, "cart cleared due to inactivity")
	}
}
