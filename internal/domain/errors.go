package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxPasswordBytes is the most bcrypt will hash; it counts bytes, not characters.
const MaxPasswordBytes = 72

var (
	// ErrNotAuthenticated is returned when no valid session identifies the caller.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized is returned when the caller lacks the required role.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid is returned when marking a purchase that is no longer unpaid.
	ErrAlreadyPaid = errors.New("order is already marked as paid")

	// ErrEmptyCart is returned when checking out a cart without lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock is matched by every *StockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnknownRole is returned for roles missing from the roles table.
	ErrUnknownRole = errors.New("unknown role")

	// ErrInvalidQuantity is returned for non-positive or stock-breaking quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownCategory is returned for categories outside the closed enumeration.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidCredentials is returned when login fails for any reason.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// StockError describes the cart line that could not be satisfied.
type StockError struct {
	ConsumableID uuid.UUID
	Name         string
	Requested    int
	Available    int
}

// Error implements the error interface.
func (e *StockError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("consumable %s is no longer available", e.ConsumableID)
	}
	return fmt.Sprintf("%s is out of stock: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) match.
func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
