package domain

import (
	"github.com/shopspring/decimal"

	"go-delivery/pkg/errors"
)

// Domain-specific errors
var (
	ErrEmptyOrder = errors.NewValidation("order must contain at least one item", nil)

	ErrMissingCancellationReason = errors.NewValidation("cancellation requires a reason", nil)

	ErrAddressUnresolved = errors.NewUnprocessable("delivery address could not be resolved", nil)
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id uint) error {
	return errors.NewNotFound("order", id)
}

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uint) error {
	return errors.NewNotFound("product", id)
}

// NewUnavailableProduct creates an error for a paused product
func NewUnavailableProduct(name string) error {
	return errors.NewUnprocessable("product is not available", map[string]interface{}{
		"product": name,
	})
}

// NewInvalidQuantity creates an error for a quantity below one
func NewInvalidQuantity(quantity int) error {
	return errors.NewValidation("quantity must be at least 1", map[string]interface{}{
		"quantity": quantity,
	})
}

// NewInvalidMonetaryValue creates an error for a negative monetary field
func NewInvalidMonetaryValue(field string, value decimal.Decimal) error {
	return errors.NewValidation(field+" must be greater than or equal to zero", map[string]interface{}{
		field: value.StringFixed(2),
	})
}

// NewInvalidStatusTransition reports an illegal lifecycle transition,
// including the current and the requested state
func NewInvalidStatusTransition(from, to Status) error {
	return errors.NewConflict("status transition is not allowed", map[string]interface{}{
		"current":   string(from),
		"requested": string(to),
	})
}

// NewOrderLocked creates an error for edits attempted after confirmation
func NewOrderLocked(status Status) error {
	return errors.NewConflict("order can no longer be edited; cancel and recreate it", map[string]interface{}{
		"status": string(status),
	})
}

// NewConcurrencyConflict creates an error for a stale-version write
func NewConcurrencyConflict(id uint) error {
	return errors.NewConflict("order was modified concurrently, retry with fresh state", map[string]interface{}{
		"order_id": id,
	})
}

// NewPricingInconsistency reports a caller-supplied total that does not match
// the recomputed one
func NewPricingInconsistency(expected, computed decimal.Decimal) error {
	return errors.NewUnprocessable("order total does not match its items", map[string]interface{}{
		"expected": expected.StringFixed(2),
		"computed": computed.StringFixed(2),
	})
}

// NewOutsideDeliveryArea creates an error for an address beyond the delivery radius
func NewOutsideDeliveryArea(distanceKm, maxKm float64) error {
	return errors.NewUnprocessable("address is outside the delivery area", map[string]interface{}{
		"distance_km": distanceKm,
		"max_km":      maxKm,
	})
}
