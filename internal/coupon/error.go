package coupon

import "errors"

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCodeExists      = errors.New("coupon code already exists")
	ErrExpiredDate     = errors.New("expiration date is in the past")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
)
