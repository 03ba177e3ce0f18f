package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameExists      = errors.New("product name already exists")
	ErrInvalidPrice    = errors.New("price must not be negative")
)
