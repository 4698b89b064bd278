package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/storelab/orders-service/internal/product"
	"github.com/storelab/orders-service/internal/rpcerr"
)

// Service orchestrates order operations: remote product validation,
// pricing, and the store. Collaborators are supplied explicitly at
// construction.
type Service struct {
	repo      Repository
	validator product.Validator
}

func NewService(repo Repository, validator product.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// Pagination is the findAll query: an optional status filter plus a
// 1-based page and a page size.
type Pagination struct {
	Status Status `json:"status,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type Page struct {
	Data []Order `json:"data"`
	Meta Meta    `json:"meta"`
}

type Meta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

// Create validates the requested products with the remote products
// service, prices the lines from the validated records, and persists
// header and items in one transaction. Nothing is written when
// validation or pricing fails.
func (s *Service) Create(ctx context.Context, items []LineItem) (Order, error) {
	products, err := s.validator.Validate(ctx, DistinctProductIDs(items))
	if err != nil {
		return Order{}, mapValidatorError(err)
	}

	pricing := PriceItems(items, products)

	ord, err := s.repo.Create(ctx, Order{
		TotalAmount: pricing.TotalAmount,
		TotalItems:  pricing.TotalItems,
		Items:       pricing.Items,
	})
	if err != nil {
		return Order{}, fmt.Errorf("persist order: %w", err)
	}
	return ord, nil
}

// FindOne loads an order with its items and attaches current product
// names from the products service. Stored prices and totals are never
// touched by the enrichment.
func (s *Service) FindOne(ctx context.Context, id string) (Order, error) {
	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if ord == nil {
		return Order{}, rpcerr.BadRequest("order #%s not found", id)
	}

	ids := make([]int, 0, len(ord.Items))
	for _, item := range ord.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.validator.Validate(ctx, ids)
	if err != nil {
		return Order{}, mapValidatorError(err)
	}

	ord.Items = EnrichItems(ord.Items, products)
	return *ord, nil
}

// FindAll pages through orders, optionally filtered by status. A page
// past the end is a valid empty result, never an error.
func (s *Service) FindAll(ctx context.Context, q Pagination) (Page, error) {
	if q.Status != "" && !q.Status.Valid() {
		return Page{}, rpcerr.BadRequest("status has wrong value %s", q.Status)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	total, err := s.repo.Count(ctx, q.Status)
	if err != nil {
		return Page{}, err
	}

	lastPage := (total + q.Limit - 1) / q.Limit
	meta := Meta{Total: total, Page: q.Page, LastPage: lastPage}

	if q.Page > lastPage {
		return Page{Data: []Order{}, Meta: meta}, nil
	}

	orders, err := s.repo.List(ctx, q.Status, q.Page, q.Limit)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: orders, Meta: meta}, nil
}

// ChangeStatus replaces an order's status. The target must be one of
// the enumerated values; the transition graph is not enforced here.
func (s *Service) ChangeStatus(ctx context.Context, id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, rpcerr.BadRequest("status has wrong value %s", status)
	}

	ord, err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, ErrNotFound) {
		return Order{}, rpcerr.BadRequest("order #%s not found", id)
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

// MarkPaid records a successful payment for the order.
func (s *Service) MarkPaid(ctx context.Context, id string) (Order, error) {
	ord, err := s.repo.MarkPaid(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Order{}, rpcerr.BadRequest("order #%s not found", id)
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

// mapValidatorError translates validator failures into the envelopes
// callers see: an empty-body reply is a transient dependency failure
// (500), everything else a client-facing 400 carrying the cause.
func mapValidatorError(err error) error {
	if errors.Is(err, product.ErrEmptyResponse) {
		return rpcerr.Unavailable("%s", err)
	}
	return rpcerr.BadRequest("%s", err)
}
