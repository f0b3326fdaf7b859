package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodBankTransfer
}

type OrderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CustomerInfo is the billing address collected at checkout. Unlike the
// optional profile Address, every field is required here.
type CustomerInfo struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type CheckoutRequest struct {
	Items           []OrderItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" validate:"required,oneof=card bank_transfer"`
	ShippingAddress CustomerInfo  `json:"shippingAddress"`
}

type Order struct {
	ID            string        `json:"_id"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	Status        string        `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus string        `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type CreateOrderResponse struct {
	Order Order `json:"order"`
}

type PaymentIntentRequest struct {
	OrderID string `json:"orderId"`
}

type PaymentSlipRequest struct {
	URL string `json:"url" validate:"required,url"`
}
