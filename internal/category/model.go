package category

import "time"

type Category struct {
	ID          uint
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Update carries the fields a PATCH may change. Nil means leave as-is.
type Update struct {
	Name        *string
	Description *string
}
