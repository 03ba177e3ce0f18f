package product

import (
	"context"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts QueryOptions) ([]Product, error)
	Get(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id uint, upd Update) (*Product, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts QueryOptions) ([]Product, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, p *Product) error {
	if p.BasePrice < 0 || p.SellingPrice < 0 || p.CostToCompany < 0 {
		return ErrInvalidPrice
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Uint("product_id", p.ID),
		zap.String("name", p.Name),
	)
	return nil
}

func (s *service) Update(ctx context.Context, id uint, upd Update) (*Product, error) {
	if upd.BasePrice != nil && *upd.BasePrice < 0 {
		return nil, ErrInvalidPrice
	}
	if upd.SellingPrice != nil && *upd.SellingPrice < 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
