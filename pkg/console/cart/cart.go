// Package cart holds the client-local shopping cart. The cart is a
// process-wide singleton mutated only through its methods, with durable
// persistence on every mutation so a restart rehydrates the same contents.
package cart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const cartStoreKey = "cart_items"

// Store is the durable persistence surface the cart writes through.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// SizeLine is the quantity ordered for one size, with its per-size price
// adjustment over the base unit price.
type SizeLine struct {
	Size           string  `json:"size"`
	Quantity       int     `json:"quantity"`
	UnitAdjustment float64 `json:"unit_adjustment"`
}

// Item is one cart row: a product with its size breakdown and price
// components.
type Item struct {
	ProductID     string     `json:"product_id"`
	ProductName   string     `json:"product_name"`
	BaseUnitPrice float64    `json:"base_unit_price"`
	Sizes         []SizeLine `json:"sizes"`
	Subtotal      float64    `json:"subtotal"`
}

// ComputeSubtotal derives the subtotal from the price components.
func (i *Item) ComputeSubtotal() float64 {
	var subtotal float64
	for _, line := range i.Sizes {
		subtotal += (i.BaseUnitPrice + line.UnitAdjustment) * float64(line.Quantity)
	}
	return subtotal
}

// Quantity is the total units across all sizes.
func (i *Item) Quantity() int {
	var total int
	for _, line := range i.Sizes {
		total += line.Quantity
	}
	return total
}

// Signature identifies the product + size breakdown for merging. Two items
// with the same signature collapse into one row.
func (i *Item) Signature() string {
	sizes := make([]string, 0, len(i.Sizes))
	for _, line := range i.Sizes {
		sizes = append(sizes, fmt.Sprintf("%s@%g", line.Size, line.UnitAdjustment))
	}
	sort.Strings(sizes)
	return i.ProductID + "|" + strings.Join(sizes, ",")
}

// Cart is the shopping cart singleton.
type Cart struct {
	mu    sync.Mutex
	store Store
	items []Item
}

// New opens a cart, rehydrating any persisted contents.
func New(store Store) (*Cart, error) {
	c := &Cart{store: store}
	raw, ok := store.Get(cartStoreKey)
	if !ok || raw == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), &c.items); err != nil {
		// Corrupt cart state is discarded rather than fatal.
		c.items = nil
		_ = store.Delete(cartStoreKey)
	}
	return c, nil
}

// Add inserts an item, merging with an existing row of identical product and
// size signature: quantities sum per size and subtotals add.
func (c *Cart) Add(item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item.Subtotal = item.ComputeSubtotal()
	signature := item.Signature()

	for idx := range c.items {
		if c.items[idx].Signature() != signature {
			continue
		}
		merge(&c.items[idx], item)
		return c.persistLocked()
	}

	c.items = append(c.items, item)
	return c.persistLocked()
}

func merge(existing *Item, incoming Item) {
	bySize := make(map[string]int, len(existing.Sizes))
	for i, line := range existing.Sizes {
		bySize[line.Size] = i
	}
	for _, line := range incoming.Sizes {
		if i, ok := bySize[line.Size]; ok {
			existing.Sizes[i].Quantity += line.Quantity
		} else {
			existing.Sizes = append(existing.Sizes, line)
		}
	}
	existing.Subtotal += incoming.Subtotal
}

// Remove deletes the row with the given signature.
func (c *Cart) Remove(signature string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for idx := range c.items {
		if c.items[idx].Signature() == signature {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return c.persistLocked()
		}
	}
	return nil
}

// Items returns a copy of the current rows.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Total sums every row's subtotal.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.Subtotal
	}
	return total
}

// Clear empties the cart, both memory and durable storage. Called on
// successful checkout or explicit user action.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.store.Delete(cartStoreKey)
}

func (c *Cart) persistLocked() error {
	payload, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.store.Set(cartStoreKey, string(payload))
}
