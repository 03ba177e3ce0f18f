package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Coupon), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, id uint, upd Update) (*Coupon, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Redeem(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func fixedService(repo Repository, now time.Time) *service {
	return &service{repo: repo, now: func() time.Time { return now }}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	t.Run("CappedDiscount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "DISCOUNT10").Return(&Coupon{
			Code:            "DISCOUNT10",
			DiscountPercent: 10,
			DiscountCap:     5,
			UsageLimit:      10,
			ExpirationDate:  &future,
			IsActive:        true,
		}, nil)

		app, err := svc.Apply(ctx, "DISCOUNT10", 100)
		require.NoError(t, err)
		// 10% of 100 is 10 but the cap of 5 wins.
		assert.Equal(t, 5.0, app.DiscountAmount)
		assert.Equal(t, 95.0, app.FinalTotal)

		// Apply never touches usage; Redeem was not called.
		repo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
	})

	t.Run("UncappedDiscount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "SAVE20").Return(&Coupon{
			Code:            "SAVE20",
			DiscountPercent: 20,
			DiscountCap:     100,
			UsageLimit:      1,
			IsActive:        true,
		}, nil)

		app, err := svc.Apply(ctx, "SAVE20", 50)
		require.NoError(t, err)
		assert.Equal(t, 10.0, app.DiscountAmount)
		assert.Equal(t, 40.0, app.FinalTotal)
	})

	t.Run("FinalTotalNeverNegative", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "BIG").Return(&Coupon{
			Code:            "BIG",
			DiscountPercent: 100,
			DiscountCap:     1000,
			UsageLimit:      1,
			IsActive:        true,
		}, nil)

		app, err := svc.Apply(ctx, "BIG", 30)
		require.NoError(t, err)
		assert.Equal(t, 30.0, app.DiscountAmount)
		assert.Equal(t, 0.0, app.FinalTotal)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "NOPE").Return(nil, ErrCouponNotFound)

		_, err := svc.Apply(ctx, "NOPE", 100)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("Inactive", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "OFF").Return(&Coupon{
			Code: "OFF", DiscountPercent: 10, DiscountCap: 5, UsageLimit: 10, IsActive: false,
		}, nil)

		_, err := svc.Apply(ctx, "OFF", 100)
		assert.ErrorIs(t, err, ErrCouponInactive)
		repo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
	})

	t.Run("Expired", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "OLD").Return(&Coupon{
			Code: "OLD", DiscountPercent: 10, DiscountCap: 5, UsageLimit: 10,
			ExpirationDate: &past, IsActive: true,
		}, nil)

		_, err := svc.Apply(ctx, "OLD", 100)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("Exhausted", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		repo.On("GetByCode", ctx, "USEDUP").Return(&Coupon{
			Code: "USEDUP", DiscountPercent: 10, DiscountCap: 5, UsageLimit: 0, IsActive: true,
		}, nil)

		_, err := svc.Apply(ctx, "USEDUP", 100)
		assert.ErrorIs(t, err, ErrCouponExhausted)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("RejectsPastExpiration", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		past := now.Add(-time.Minute)
		err := svc.Create(ctx, &Coupon{Code: "X", DiscountPercent: 5, ExpirationDate: &past})
		assert.ErrorIs(t, err, ErrExpiredDate)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsBadPercent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		err := svc.Create(ctx, &Coupon{Code: "X", DiscountPercent: 150})
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		c := &Coupon{Code: "NEW", DiscountPercent: 5, DiscountCap: 10, UsageLimit: 3, IsActive: true}
		repo.On("Create", ctx, c).Return(nil)

		assert.NoError(t, svc.Create(ctx, c))
		repo.AssertExpectations(t)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("RejectsPastExpiration", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		past := now.Add(-time.Minute)
		_, err := svc.Update(ctx, 1, Update{ExpirationDate: &past})
		assert.ErrorIs(t, err, ErrExpiredDate)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, now)

		limit := 5
		repo.On("Update", ctx, uint(1), Update{UsageLimit: &limit}).
			Return(&Coupon{ID: 1, UsageLimit: 5}, nil)

		c, err := svc.Update(ctx, 1, Update{UsageLimit: &limit})
		require.NoError(t, err)
		assert.Equal(t, 5, c.UsageLimit)
	})
}
