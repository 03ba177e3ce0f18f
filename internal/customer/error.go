package customer

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
