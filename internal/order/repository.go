package order

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders. Create inserts
// the header and every item as one atomic unit; a partial order must
// never be observable.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	// FindByID returns (nil, nil) when no order with the id exists.
	FindByID(ctx context.Context, id string) (*Order, error)
	Count(ctx context.Context, status Status) (int, error)
	List(ctx context.Context, status Status, page, limit int) ([]Order, error)
	// UpdateStatus and MarkPaid return ErrNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id string, status Status) (Order, error)
	MarkPaid(ctx context.Context, id string) (Order, error)
}
