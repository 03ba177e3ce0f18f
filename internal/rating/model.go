package rating

import "time"

type Rating struct {
	ID         uint
	CustomerID uint
	ProductID  uint
	Value      float64
	Comment    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
