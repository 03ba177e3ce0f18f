package category

import (
	"context"
	"strings"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter *string, limit, page *int32) ([]Category, error)
	Get(ctx context.Context, id uint) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, id uint, upd Update) (*Category, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter *string, limit, page *int32) ([]Category, error) {
	return s.repo.List(ctx, filter, limit, page)
}

func (s *service) Get(ctx context.Context, id uint) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, c *Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("category created",
		zap.Uint("category_id", c.ID),
		zap.String("name", c.Name),
	)
	return nil
}

func (s *service) Update(ctx context.Context, id uint, upd Update) (*Category, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, ErrEmptyName
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
