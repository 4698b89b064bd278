package order

import "time"

// Status enumerates the order lifecycle states. The core enforces only
// that a target status is one of these values; the transition graph is
// owned by business rules outside this service.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the order header plus its line items. JSON names (including
// the OrderItem key) follow the contract the rest of the platform
// already consumes.
type Order struct {
	ID          string    `json:"id"`
	TotalAmount float64   `json:"totalAmount"`
	TotalItems  int       `json:"totalItems"`
	Status      Status    `json:"status"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Items       []Item    `json:"OrderItem,omitempty"`
}

// Item is one order line. Price is a snapshot taken at creation time
// and is never recomputed; Name is attached live from the products
// service when an order is returned to a caller and is not persisted.
type Item struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name,omitempty"`
}

// LineItem is a requested order line before pricing.
type LineItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}
