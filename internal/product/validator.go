package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectValidate is the request/reply subject owned by the products
// service.
const SubjectValidate = "validateProducts"

// Validator confirms product existence and current price with the
// remote products service. A single call is made per invocation; there
// is no client-side retry.
type Validator interface {
	Validate(ctx context.Context, ids []int) ([]Product, error)
}

// NatsValidator performs validation over NATS request/reply. The call
// blocks until the reply arrives or the configured timeout elapses.
type NatsValidator struct {
	nc      *nats.Conn
	timeout time.Duration
}

func NewNatsValidator(nc *nats.Conn, timeout time.Duration) *NatsValidator {
	return &NatsValidator{nc: nc, timeout: timeout}
}

func (v *NatsValidator) Validate(ctx context.Context, ids []int) ([]Product, error) {
	payload, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode product ids: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	msg, err := v.nc.RequestWithContext(ctx, SubjectValidate, payload)
	switch {
	case errors.Is(err, nats.ErrNoResponders),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		return nil, fmt.Errorf("validate products request: %w", err)
	}

	return decodeValidateReply(msg.Data)
}

// decodeValidateReply interprets the raw reply body. An empty body is
// the remote's "no response" signal and is not the same thing as an
// empty product list.
func decodeValidateReply(data []byte) ([]Product, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err == nil {
		return products, nil
	}

	// Not a product list; the remote replies with its own
	// {message,status,code} envelope when validation fails.
	var remote struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(data, &remote); err == nil && remote.Message != "" {
		return nil, fmt.Errorf("products service rejected request: %s", remote.Message)
	}

	return nil, fmt.Errorf("malformed reply from products service: %q", data)
}
