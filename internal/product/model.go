package product

import "time"

type Product struct {
	ID             uint
	Name           string
	Description    *string
	Tags           []string
	Specifications []string
	BasePrice      float64
	SellingPrice   float64
	CostToCompany  float64
	CategoryID     uint
	Stock          int
	Active         bool
	AvgRating      float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Update enumerates the catalog fields a patch may touch. Stock moves only
// through the inventory ledger and avg_rating only through the rating
// aggregator; neither is patchable here.
type Update struct {
	Name           *string
	Description    *string
	Tags           []string
	Specifications []string
	BasePrice      *float64
	SellingPrice   *float64
	CostToCompany  *float64
	CategoryID     *uint
	Active         *bool
}

type QueryOptions struct {
	Search     *string
	CategoryID *uint
	OnlyActive bool
	Limit      int32
	Page       int32
}
