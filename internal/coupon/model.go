package coupon

import "time"

type Coupon struct {
	ID              uint
	Code            string
	DiscountPercent float64
	DiscountCap     float64
	UsageLimit      int
	ExpirationDate  *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Update enumerates the fields a coupon patch may touch. Anything not
// listed here cannot be changed through the API.
type Update struct {
	Code            *string
	DiscountPercent *float64
	DiscountCap     *float64
	UsageLimit      *int
	ExpirationDate  *time.Time
	IsActive        *bool
}

// Application is the outcome of applying a coupon to an order total.
type Application struct {
	DiscountAmount float64
	FinalTotal     float64
}
