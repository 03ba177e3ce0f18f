package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be at least 1")
	ErrImmutableField       = errors.New("field cannot be changed after placement")
	ErrUnknownField         = errors.New("unknown order field")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrMissingTransactionID = errors.New("transaction id required to mark order paid")
	ErrOrderNumberConflict  = errors.New("order number already exists")
	ErrIncompleteAddress    = errors.New("shipping address is incomplete")
)
