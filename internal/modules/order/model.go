package order

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Line is one product within an order. PriceAtTime snapshots the price at
// order creation; it is never recomputed from the current catalog.
type Line struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
	Name        string  `json:"name,omitempty"`
}

// Order is a placed order as served by the storefront API. TotalAmount is
// computed server-side.
type Order struct {
	ID              int       `json:"id"`
	Status          Status    `json:"status"`
	TotalAmount     float64   `json:"total_amount"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
	Products        []Line    `json:"products,omitempty"`
}

type createRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

// Patch is a partial order update; only non-nil fields are sent.
type Patch struct {
	Status *Status `json:"status,omitempty"`
}
