package domain

// DeliveryMethod selects how an order is fulfilled.
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

// IsValid checks if the delivery method is valid.
func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryCourier || m == DeliveryPickup
}

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// IsValid checks if the payment method is valid.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard
}

// Delivery pricing. Courier delivery costs DeliveryFee unless the selected
// subtotal reaches FreeDeliveryThreshold; pickup is always free.
const (
	DeliveryFee           = 300
	FreeDeliveryThreshold = 5000
)

// PickupAddress is the fixed address marker submitted for pickup orders.
const PickupAddress = "Pickup"

// CheckoutState represents where a checkout attempt is in its lifecycle.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "IDLE"
	CheckoutValidating CheckoutState = "VALIDATING"
	CheckoutSubmitting CheckoutState = "SUBMITTING"
	CheckoutSucceeded  CheckoutState = "SUCCEEDED"
	CheckoutFailed     CheckoutState = "FAILED"
)

// CanTransitionTo checks if a checkout state transition is valid.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	switch s {
	case CheckoutIdle:
		return next == CheckoutValidating
	case CheckoutValidating:
		return next == CheckoutSubmitting || next == CheckoutIdle
	case CheckoutSubmitting:
		return next == CheckoutSucceeded || next == CheckoutFailed
	case CheckoutSucceeded:
		return false // terminal for this attempt
	case CheckoutFailed:
		return next == CheckoutValidating
	default:
		return false
	}
}

// CustomerInfo carries the checkout form's contact fields.
type CustomerInfo struct {
	Name       string
	Phone      string
	Address    string
	Comment    string
	CashChange string
}

// OrderDraft is derived at submission time from the selected cart lines
// joined with their catalog products. It is never persisted.
type OrderDraft struct {
	Customer       CustomerInfo
	DeliveryMethod DeliveryMethod
	PaymentMethod  PaymentMethod
	Items          []OrderItem
	Subtotal       int
	DeliveryCost   int
	Total          int
}

// OrderItem is one submitted order line. Price is the line total
// (unit price times quantity), numeric end to end.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}
