package domain

import "strings"

// CustomerInfo is the contact form filled in at checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Normalize trims surrounding whitespace from every field.
func (c *CustomerInfo) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

// MissingFields returns the names of required fields that are empty
// after normalization, in form order.
func (c *CustomerInfo) MissingFields() []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

// OrderLine is a single item of an order request sent to the order
// provider.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the payload posted to the order provider.
type OrderRequest struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderLine `json:"items"`
}

// NewOrderRequest builds the provider payload from a normalized
// customer form and the current cart lines.
func NewOrderRequest(customer CustomerInfo, cart *Cart) OrderRequest {
	req := OrderRequest{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           make([]OrderLine, 0, len(cart.Items)),
	}
	for i := range cart.Items {
		req.Items = append(req.Items, OrderLine{
			ProductID: cart.Items[i].ProductID,
			Quantity:  cart.Items[i].Quantity,
		})
	}
	return req
}

// OrderConfirmation is the provider's response to an accepted order.
type OrderConfirmation struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
}
