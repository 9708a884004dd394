package product

import (
	"context"
	"errors"

	"catalog-be/internal/logger"
	"catalog-be/internal/result"
	"catalog-be/internal/utils"

	"go.uber.org/zap"
)

// Cache is the read-through store in front of single-product lookups.
type Cache interface {
	Get(ctx context.Context, id int64) (*Product, error)
	Set(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	Replace(ctx context.Context, id int64, input CreateProductInput) (*Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*Product, error)
	Restock(ctx context.Context, id int64, quantity int) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	opts.Page, opts.PageSize = utils.NormalizePage(opts.Page, opts.PageSize)

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:      items,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalItems: total,
		TotalPages: utils.TotalPages(total, opts.PageSize),
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Get"),
		zap.Int64("product_id", id),
	)

	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	log.Debug("product cache miss", zap.Error(err))

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p); err != nil {
		log.Warn("failed to cache product", zap.Error(err))
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}

	res := New(NewProductParams(input))
	if res.IsFailure() {
		return nil, res.Err()
	}

	p, err := s.repo.Create(ctx, res.Value())
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.String("layer", "service"),
		zap.Int64("product_id", p.ID),
	)
	return p, nil
}

// Replace applies a full PUT payload to an active product.
func (s *service) Replace(ctx context.Context, id int64, input CreateProductInput) (*Product, error) {
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	res := p.UpdateDetails(UpdateDetailsParams{
		Name:         &input.Name,
		Description:  &input.Description,
		Category:     &input.Category,
		ContactEmail: &input.ContactEmail,
	})
	if res.IsFailure() {
		return nil, res.Err()
	}

	if !input.Price.Equal(p.Price) {
		if res := p.UpdatePrice(input.Price); res.IsFailure() {
			return nil, res.Err()
		}
	}
	p.AdjustStock(input.Stock)

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial PATCH payload to an active product.
func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*Product, error) {
	if err := ValidateUpdate(input); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	res := p.UpdateDetails(UpdateDetailsParams{
		Name:         input.Name,
		Description:  input.Description,
		Category:     input.Category,
		ContactEmail: input.ContactEmail,
	})
	if res.IsFailure() {
		return nil, res.Err()
	}

	if input.Price != nil {
		if res := p.UpdatePrice(*input.Price); res.IsFailure() {
			return nil, res.Err()
		}
	}
	if input.Stock != nil {
		p.AdjustStock(*input.Stock)
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Restock(ctx context.Context, id int64, quantity int) (*Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if res := p.Restock(quantity); res.IsFailure() {
		return nil, res.Err()
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete is a soft delete: the row stays, flagged inactive.
func (s *service) Delete(ctx context.Context, id int64) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if res := p.Deactivate(); res.IsFailure() {
		return res.Err()
	}

	return s.save(ctx, p)
}

/* ---------- HELPERS ---------- */

func (s *service) load(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, GetOptions{ID: id, OnlyActive: true})
	if errors.Is(err, ErrProductNotFound) {
		return nil, result.NewError(result.NotFound, "product %d not found", id)
	}
	return p, err
}

func (s *service) save(ctx context.Context, p *Product) error {
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return result.NewError(result.NotFound, "product %d not found", p.ID)
		}
		return err
	}

	if err := s.cache.Delete(ctx, p.ID); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate product cache",
			zap.String("layer", "service"),
			zap.Int64("product_id", p.ID),
			zap.Error(err),
		)
	}
	return nil
}
