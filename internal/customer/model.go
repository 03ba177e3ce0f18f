package customer

import "time"

type Address struct {
	Label      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

type Customer struct {
	ID        uint
	Name      string
	Email     string
	Phone     string
	Addresses []Address
	// OrderHistory is append-only; entries are added by the order
	// orchestrator when an order is successfully placed.
	OrderHistory []uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Update enumerates the mutable profile fields. Order history is not
// patchable through the API.
type Update struct {
	Name      *string
	Email     *string
	Phone     *string
	Addresses []Address
}
