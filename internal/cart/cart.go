// Package cart is the in-memory shopping cart. Line items are keyed by
// product ID and keep their insertion order for display.
package cart

import (
	"sync"

	"github.com/ceylonhub/storefront/internal/models"
)

type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	index map[string]int
	subs  []func([]models.CartItem)
}

func New() *Cart {
	return &Cart{index: map[string]int{}}
}

// Subscribe registers fn to run synchronously after every mutation with a
// snapshot of the items. Registration order is notification order.
func (c *Cart) Subscribe(fn func(items []models.CartItem)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, fn)
}

// AddItem appends item with quantity 1, or increments the quantity when the
// product is already in the cart. The incoming Quantity field is ignored.
func (c *Cart) AddItem(item models.CartItem) {
	c.mu.Lock()

	if i, ok := c.index[item.ProductID]; ok {
		c.items[i].Quantity++
	} else {
		item.Quantity = 1
		c.index[item.ProductID] = len(c.items)
		c.items = append(c.items, item)
	}

	c.notifyLocked()
}

// UpdateQuantity sets the line to quantity; zero or negative removes it.
// An unknown product ID is a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()

	i, ok := c.index[productID]
	if !ok {
		c.mu.Unlock()
		return
	}

	if quantity <= 0 {
		c.removeAt(i)
	} else {
		c.items[i].Quantity = quantity
	}

	c.notifyLocked()
}

// RemoveItem deletes the line if present; no-op otherwise.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()

	i, ok := c.index[productID]
	if !ok {
		c.mu.Unlock()
		return
	}

	c.removeAt(i)
	c.notifyLocked()
}

func (c *Cart) Clear() {
	c.mu.Lock()

	c.items = nil
	c.index = map[string]int{}

	c.notifyLocked()
}

// Restore replaces the cart contents wholesale, normalizing through the add
// path so duplicates collapse and quantities stay positive.
func (c *Cart) Restore(items []models.CartItem) {
	c.mu.Lock()

	c.items = nil
	c.index = map[string]int{}

	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		if i, ok := c.index[item.ProductID]; ok {
			c.items[i].Quantity += quantity
			continue
		}

		item.Quantity = quantity
		c.index[item.ProductID] = len(c.items)
		c.items = append(c.items, item)
	}

	c.notifyLocked()
}

// Items returns a copy in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}

	return count
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}

	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *Cart) removeAt(i int) {
	delete(c.index, c.items[i].ProductID)
	c.items = append(c.items[:i], c.items[i+1:]...)

	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ProductID] = j
	}
}

func (c *Cart) snapshotLocked() []models.CartItem {
	snapshot := make([]models.CartItem, len(c.items))
	copy(snapshot, c.items)

	return snapshot
}

// notifyLocked releases the lock before running subscribers so they can call
// back into the cart.
func (c *Cart) notifyLocked() {
	subs := c.subs
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
