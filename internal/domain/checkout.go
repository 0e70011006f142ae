package domain

// CheckoutState tracks where a session is in the purchase flow.
type CheckoutState string

const (
	// StateBrowsing is the default state. Cart mutations are allowed.
	StateBrowsing CheckoutState = "browsing"
	// StateCheckout means the session has opened the checkout form.
	StateCheckout CheckoutState = "checkout"
	// StateCompleted means an order was accepted for the session.
	StateCompleted CheckoutState = "completed"
)

// CanSubmit reports whether an order may be submitted from this state.
func (s CheckoutState) CanSubmit() bool {
	return s == StateCheckout
}
