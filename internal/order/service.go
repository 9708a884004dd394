package order

import (
	"context"
	"errors"
	"fmt"

	"catalog-be/internal/logger"
	"catalog-be/internal/metrics"
	"catalog-be/internal/product"
	"catalog-be/internal/result"
	"catalog-be/internal/utils"

	"go.uber.org/zap"
)

// ProductLookup resolves catalog products for order lines. Inactive products
// are returned too; they fail the stock check instead.
type ProductLookup interface {
	FindByID(ctx context.Context, id int64) (*product.Product, error)
}

type ItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	Items []ItemInput `json:"items"`
}

type ListOrdersInput struct {
	Page     int
	PageSize int
	Status   *Status
}

type ListResult struct {
	Items    []*Order
	Total    int
	Page     int
	PageSize int
}

type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, input ListOrdersInput) (*ListResult, error)
	AddItem(ctx context.Context, orderID int64, input ItemInput) (*Order, error)
	Confirm(ctx context.Context, orderID int64) (*Order, error)
	Cancel(ctx context.Context, orderID int64, reason string) (*Order, error)
}

type service struct {
	repo     Repository
	products ProductLookup
	metrics  *metrics.OrderMetrics
}

func NewService(repo Repository, products ProductLookup, m *metrics.OrderMetrics) Service {
	return &service{
		repo:     repo,
		products: products,
		metrics:  m,
	}
}

// Create builds a draft order and adds every requested line in sequence.
// The first failing line aborts the command and nothing is persisted.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (o *Order, err error) {
	defer func() { s.metrics.Observe("create", err) }()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Int("lines", len(input.Items)),
	)

	o = New()
	for _, in := range input.Items {
		if err := s.addItem(ctx, o, in); err != nil {
			log.Info("order creation rejected", zap.Int64("product_id", in.ProductID), zap.Error(err))
			return nil, err
		}
	}

	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	log.Info("order created", zap.Int64("order_id", o.ID()))
	return o, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.load(ctx, id)
}

func (s *service) List(ctx context.Context, input ListOrdersInput) (*ListResult, error) {
	page, pageSize := utils.ClampPage(input.Page, input.PageSize)

	records, total, err := s.repo.List(ctx, ListFilter{
		Status:   input.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(records))
	for _, rec := range records {
		o, err := FromRecord(rec)
		if err != nil {
			logger.FromCtx(ctx).Error("corrupt order record",
				zap.String("layer", "service"),
				zap.Int64("order_id", rec.ID),
				zap.Error(err),
			)
			return nil, err
		}
		orders = append(orders, o)
	}

	return &ListResult{
		Items:    orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *service) AddItem(ctx context.Context, orderID int64, input ItemInput) (o *Order, err error) {
	defer func() { s.metrics.Observe("add_item", err) }()

	o, err = s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.addItem(ctx, o, input); err != nil {
		return nil, err
	}

	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Confirm(ctx context.Context, orderID int64) (o *Order, err error) {
	defer func() { s.metrics.Observe("confirm", err) }()

	return s.mutate(ctx, orderID, func(o *Order) result.Result {
		return o.Confirm()
	})
}

func (s *service) Cancel(ctx context.Context, orderID int64, reason string) (o *Order, err error) {
	defer func() { s.metrics.Observe("cancel", err) }()

	return s.mutate(ctx, orderID, func(o *Order) result.Result {
		return o.Cancel(reason)
	})
}

/* ---------- HELPERS ---------- */

func (s *service) mutate(ctx context.Context, orderID int64, fn func(*Order) result.Result) (*Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if res := fn(o); res.IsFailure() {
		return nil, res.Err()
	}

	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) addItem(ctx context.Context, o *Order, in ItemInput) error {
	p, err := s.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, product.ErrProductNotFound) {
		return result.NewError(result.NotFound, "product %d not found", in.ProductID)
	}
	if err != nil {
		return fmt.Errorf("lookup product %d: %w", in.ProductID, err)
	}

	return o.AddItem(p, in.Quantity).Err()
}

func (s *service) load(ctx context.Context, id int64) (*Order, error) {
	rec, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, result.NewError(result.NotFound, "order %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return FromRecord(rec)
}

func (s *service) save(ctx context.Context, o *Order) error {
	saved, err := s.repo.Save(ctx, o.ToRecord())
	if errors.Is(err, ErrVersionConflict) {
		return result.NewError(result.Conflict, "order %d was modified concurrently, reload and retry", o.ID())
	}
	if err != nil {
		return err
	}

	o.markPersisted(saved.ID, saved.Version)
	return nil
}
