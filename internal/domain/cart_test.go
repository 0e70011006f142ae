package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.TotalPrice Tests
// ============================================================================

func TestTotalPrice_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1999, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3998), c.TotalPrice())
}

func TestTotalPrice_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1000, Quantity: 2},
			{Price: 500, Quantity: 3},
			{Price: 2500, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.TotalPrice())
}

func TestTotalPrice_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestTotalPrice_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.TotalPrice())
}

// ============================================================================
// Cart.ItemCount Tests
// ============================================================================

func TestItemCount_SumsQuantities(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
		},
	}
	assert.Equal(t, 5, c.ItemCount())
}

func TestItemCount_Empty(t *testing.T) {
	c := NewCart("sess-1")
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.IsEmpty())
}

// ============================================================================
// Cart.FindItem Tests
// ============================================================================

func TestFindItem_Found(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: 10},
			{ProductID: 20},
			{ProductID: 30},
		},
	}
	assert.Equal(t, 1, c.FindItem(20))
}

func TestFindItem_NotFound(t *testing.T) {
	c := &Cart{
		Items: []CartItem{{ProductID: 10}},
	}
	assert.Equal(t, -1, c.FindItem(99))
}

// ============================================================================
// Cart.RemoveAt Tests
// ============================================================================

func TestRemoveAt_MiddleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: 1},
			{ProductID: 2},
			{ProductID: 3},
		},
	}
	c.RemoveAt(1)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, int64(1), c.Items[0].ProductID)
	assert.Equal(t, int64(3), c.Items[1].ProductID)
}

func TestRemoveAt_LastItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{{ProductID: 1}},
	}
	c.RemoveAt(0)
	assert.Empty(t, c.Items)
}

// ============================================================================
// CartItem.Subtotal Tests
// ============================================================================

func TestSubtotal(t *testing.T) {
	item := CartItem{Price: 250, Quantity: 4}
	assert.Equal(t, int64(1000), item.Subtotal())
}
