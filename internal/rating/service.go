package rating

import (
	"context"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, customerID, productID uint, value float64, comment *string) (*Rating, float64, error)
	ListByProduct(ctx context.Context, productID uint) ([]Rating, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, customerID, productID uint, value float64, comment *string) (*Rating, float64, error) {
	if value < 0 || value > 5 {
		return nil, 0, ErrInvalidValue
	}

	rt := &Rating{
		CustomerID: customerID,
		ProductID:  productID,
		Value:      value,
		Comment:    comment,
	}

	avg, err := s.repo.Upsert(ctx, rt)
	if err != nil {
		return nil, 0, err
	}

	logger.FromCtx(ctx).Info("rating submitted",
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", productID),
		zap.Float64("value", value),
		zap.Float64("avg_rating", avg),
	)

	return rt, avg, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uint) ([]Rating, error) {
	return s.repo.ListByProduct(ctx, productID)
}
