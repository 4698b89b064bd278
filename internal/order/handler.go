package order

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/storelab/orders-service/internal/rpcerr"
)

// Bus subjects this service answers on.
const (
	SubjectCreate     = "createOrder"
	SubjectFindAll    = "findAllOrders"
	SubjectFindOne    = "findOneOrder"
	SubjectChange     = "changeStatus"
	SubjectPaidEvent  = "payment.succeeded"
	subscriptionQueue = "orders"
)

// Handler binds the order service to the message bus. Each request
// handler takes and returns raw JSON so it can be driven directly in
// tests without a broker.
type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Register subscribes every operation. Request subjects share a queue
// group so replicas split the load; payment.succeeded is a plain
// fire-and-forget subscription.
func (h *Handler) Register(nc *nats.Conn) error {
	requests := map[string]func(context.Context, []byte) (any, error){
		SubjectCreate:  h.createOrder,
		SubjectFindAll: h.findAllOrders,
		SubjectFindOne: h.findOneOrder,
		SubjectChange:  h.changeStatus,
	}
	for subject, handle := range requests {
		_, err := nc.QueueSubscribe(subject, subscriptionQueue, func(msg *nats.Msg) {
			h.respond(msg, subject, handle)
		})
		if err != nil {
			return err
		}
	}

	_, err := nc.QueueSubscribe(SubjectPaidEvent, subscriptionQueue, func(msg *nats.Msg) {
		h.paymentSucceeded(context.Background(), msg.Data)
	})
	return err
}

func (h *Handler) respond(msg *nats.Msg, subject string, handle func(context.Context, []byte) (any, error)) {
	result, err := handle(context.Background(), msg.Data)
	if err != nil {
		h.log.Error("request failed", "subject", subject, "error", err)
		result = toEnvelope(err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.log.Error("encode reply", "subject", subject, "error", err)
		return
	}
	if err := msg.Respond(body); err != nil {
		h.log.Error("send reply", "subject", subject, "error", err)
	}
}

// toEnvelope keeps every wire-visible failure in the {message, status,
// code} shape. Errors without an envelope are infrastructure failures
// and stay 500.
func toEnvelope(err error) *rpcerr.Error {
	var envelope *rpcerr.Error
	if errors.As(err, &envelope) {
		return envelope
	}
	return rpcerr.Unavailable("%s", err)
}

type createOrderRequest struct {
	Items []LineItem `json:"items"`
}

func (h *Handler) createOrder(ctx context.Context, data []byte) (any, error) {
	var req createOrderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, rpcerr.BadRequest("items has wrong value: %s", err)
	}
	if len(req.Items) == 0 {
		return nil, rpcerr.BadRequest("items cannot be empty")
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, rpcerr.BadRequest("productId has wrong value %d", item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, rpcerr.BadRequest("quantity has wrong value %d", item.Quantity)
		}
	}

	ord, err := h.service.Create(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	h.log.Info("order created", "order_id", ord.ID, "total_amount", ord.TotalAmount, "total_items", ord.TotalItems)
	return ord, nil
}

func (h *Handler) findAllOrders(ctx context.Context, data []byte) (any, error) {
	q := Pagination{Page: 1, Limit: 10}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, rpcerr.BadRequest("pagination has wrong value: %s", err)
		}
	}
	return h.service.FindAll(ctx, q)
}

// findOneOrder accepts either a bare JSON string id or an {id} object.
func (h *Handler) findOneOrder(ctx context.Context, data []byte) (any, error) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &req); err != nil || req.ID == "" {
			return nil, rpcerr.BadRequest("id has wrong value %s", data)
		}
		id = req.ID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, rpcerr.BadRequest("id has wrong value %s", id)
	}
	return h.service.FindOne(ctx, id)
}

type changeStatusRequest struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

func (h *Handler) changeStatus(ctx context.Context, data []byte) (any, error) {
	var req changeStatusRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, rpcerr.BadRequest("status change has wrong value: %s", err)
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		return nil, rpcerr.BadRequest("id has wrong value %s", req.ID)
	}

	ord, err := h.service.ChangeStatus(ctx, req.ID, req.Status)
	if err != nil {
		return nil, err
	}
	h.log.Info("order status changed", "order_id", ord.ID, "status", ord.Status)
	return ord, nil
}

type paidOrderEvent struct {
	OrderID string `json:"orderId"`
}

// paymentSucceeded consumes the payment event. There is no reply
// channel, so failures are only logged.
func (h *Handler) paymentSucceeded(ctx context.Context, data []byte) {
	var event paidOrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.log.Error("malformed payment.succeeded event", "error", err)
		return
	}

	ord, err := h.service.MarkPaid(ctx, event.OrderID)
	if err != nil {
		h.log.Error("mark order paid", "order_id", event.OrderID, "error", err)
		return
	}
	h.log.Info("order paid", "order_id", ord.ID)
}
