package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomerInfo_Normalize(t *testing.T) {
	c := CustomerInfo{
		Name:    "  Ada Lovelace ",
		Email:   "\tada@example.com\n",
		Phone:   " +1 555 0100 ",
		Address: " 1 Analytical Way ",
	}
	c.Normalize()
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "+1 555 0100", c.Phone)
	assert.Equal(t, "1 Analytical Way", c.Address)
}

func TestCustomerInfo_MissingFields_AllEmpty(t *testing.T) {
	c := CustomerInfo{}
	assert.Equal(t, []string{"name", "email", "phone", "address"}, c.MissingFields())
}

func TestCustomerInfo_MissingFields_WhitespaceOnly(t *testing.T) {
	c := CustomerInfo{Name: "Ada", Email: "   ", Phone: "555", Address: "x"}
	c.Normalize()
	assert.Equal(t, []string{"email"}, c.MissingFields())
}

func TestCustomerInfo_MissingFields_NoneMissing(t *testing.T) {
	c := CustomerInfo{Name: "a", Email: "b", Phone: "c", Address: "d"}
	assert.Empty(t, c.MissingFields())
}

func TestNewOrderRequest(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: 7, Quantity: 2, Price: 100},
			{ProductID: 9, Quantity: 1, Price: 300},
		},
	}
	customer := CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "555", Address: "1 Way"}

	req := NewOrderRequest(customer, cart)

	assert.Equal(t, "Ada", req.CustomerName)
	assert.Equal(t, "ada@example.com", req.CustomerEmail)
	assert.Len(t, req.Items, 2)
	assert.Equal(t, OrderLine{ProductID: 7, Quantity: 2}, req.Items[0])
	assert.Equal(t, OrderLine{ProductID: 9, Quantity: 1}, req.Items[1])
}

func TestCheckoutState_CanSubmit(t *testing.T) {
	assert.False(t, StateBrowsing.CanSubmit())
	assert.True(t, StateCheckout.CanSubmit())
	assert.False(t, StateCompleted.CanSubmit())
}
