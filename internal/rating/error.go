package rating

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidValue     = errors.New("rating value must be between 0 and 5")
)
