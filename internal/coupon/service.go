package coupon

import (
	"context"
	"math"
	"time"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Apply validates the coupon against activity, expiry and remaining
	// usage and computes the bounded discount. It mutates nothing; usage
	// is consumed separately via Redeem once the order is committed.
	Apply(ctx context.Context, code string, orderTotal float64) (Application, error)

	// Redeem consumes one use of the coupon after a successful order.
	Redeem(ctx context.Context, code string) error

	List(ctx context.Context) ([]Coupon, error)
	Get(ctx context.Context, id uint) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, id uint, upd Update) (*Coupon, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Apply(ctx context.Context, code string, orderTotal float64) (Application, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("code", code),
		zap.Float64("order_total", orderTotal),
	)

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return Application{}, err
	}

	if !c.IsActive {
		return Application{}, ErrCouponInactive
	}
	if c.ExpirationDate != nil && c.ExpirationDate.Before(s.now()) {
		return Application{}, ErrCouponExpired
	}
	if c.UsageLimit <= 0 {
		return Application{}, ErrCouponExhausted
	}

	discount := math.Min(orderTotal*c.DiscountPercent/100, c.DiscountCap)
	finalTotal := orderTotal - discount
	if finalTotal < 0 {
		finalTotal = 0
	}

	log.Info("coupon applied",
		zap.Float64("discount", discount),
		zap.Float64("final_total", finalTotal),
	)

	return Application{DiscountAmount: discount, FinalTotal: finalTotal}, nil
}

func (s *service) Redeem(ctx context.Context, code string) error {
	return s.repo.Redeem(ctx, code)
}

func (s *service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, c *Coupon) error {
	if c.DiscountPercent < 0 || c.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}
	if c.ExpirationDate != nil && c.ExpirationDate.Before(s.now()) {
		return ErrExpiredDate
	}
	return s.repo.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, id uint, upd Update) (*Coupon, error) {
	if upd.DiscountPercent != nil && (*upd.DiscountPercent < 0 || *upd.DiscountPercent > 100) {
		return nil, ErrInvalidDiscount
	}
	if upd.ExpirationDate != nil && upd.ExpirationDate.Before(s.now()) {
		return nil, ErrExpiredDate
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
