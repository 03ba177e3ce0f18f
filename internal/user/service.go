package user

import (
	"context"

	"storemart-be/internal/auth"
	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string, role Role) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password string, role Role) (string, User, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	if role != RoleAdmin {
		role = RoleUser
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, email, hashed, role)
	if err != nil {
		return "", User{}, err
	}

	token, err := auth.GenerateToken(auth.Principal{
		Kind: auth.KindUser,
		ID:   u.ID,
		Role: string(u.Role),
	}, u.Email)
	if err != nil {
		log.Error("failed to generate token", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", User{}, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, hash, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, hash) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(auth.Principal{
		Kind: auth.KindUser,
		ID:   u.ID,
		Role: string(u.Role),
	}, u.Email)
	if err != nil {
		return "", User{}, err
	}

	return token, u, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (User, error) {
	u, _, err := s.repo.FindByEmail(ctx, email)
	return u, err
}
