package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a record or request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageCorrupt indicates a stored blob could not be decoded.
	ErrStorageCorrupt = errors.New("storage corrupt")
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOutOfStock is returned when a product with no stock is added.
	ErrOutOfStock = errors.New("out of stock")
	// ErrUnauthorized indicates a missing or invalid panel token.
	ErrUnauthorized = errors.New("unauthorized")
)
