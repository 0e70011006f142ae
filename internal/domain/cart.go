package domain

import "time"

// CartItem is a line in a shopping cart. Price and MaxStock are
// snapshots taken from the catalog at the moment the product was first
// added; they do not track later catalog updates.
type CartItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	MaxStock  int    `json:"max_stock"`
}

// Subtotal returns the line total in cents.
func (i *CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is a session-scoped shopping cart.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// TotalPrice returns the cart total in cents.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoveAt deletes the line at index. The caller must have validated
// the index.
func (c *Cart) RemoveAt(index int) {
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

// Touch updates the modification timestamp.
func (c *Cart) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
