package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrVersionConflict = errors.New("order version conflict")
	ErrInvalidRecord   = errors.New("invalid order record")
)
