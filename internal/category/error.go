package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameExists       = errors.New("category name already exists")
	ErrEmptyName        = errors.New("category name cannot be empty")
)
