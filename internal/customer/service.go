package customer

import (
	"context"

	"storemart-be/internal/auth"
	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

const RoleCustomer = "customer"

type Service interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id uint) (*Customer, error)
	Register(ctx context.Context, c *Customer, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, *Customer, error)
	Update(ctx context.Context, id uint, upd Update) (*Customer, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Register(ctx context.Context, c *Customer, password string) (string, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", c.Email))

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", err
	}

	if err := s.repo.Create(ctx, c, hashed); err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(auth.Principal{
		Kind: auth.KindCustomer,
		ID:   c.ID,
		Role: RoleCustomer,
	}, c.Email)
	if err != nil {
		log.Error("failed to generate token", zap.Uint("customer_id", c.ID), zap.Error(err))
		return "", err
	}

	log.Info("customer registered", zap.Uint("customer_id", c.ID))
	return token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Customer, error) {
	c, hash, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, hash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(auth.Principal{
		Kind: auth.KindCustomer,
		ID:   c.ID,
		Role: RoleCustomer,
	}, c.Email)
	if err != nil {
		return "", nil, err
	}

	return token, c, nil
}

func (s *service) Update(ctx context.Context, id uint, upd Update) (*Customer, error) {
	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
