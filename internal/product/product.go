package product

import "errors"

// Product is the validated product record returned by the remote
// products service: the authoritative name and current price for an id.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var (
	// ErrEmptyResponse means the remote answered with no usable body at
	// all. Distinct from a response containing zero products.
	ErrEmptyResponse = errors.New("empty response from products service")

	// ErrUnavailable means no response arrived before the transport
	// timeout, or nothing is listening on the subject.
	ErrUnavailable = errors.New("products service unavailable")
)
