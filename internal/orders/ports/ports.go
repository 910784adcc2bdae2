package ports

import (
	"context"

	"go-delivery/internal/orders/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create persists a new order and its line items
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID, including its version token
	GetByID(ctx context.Context, id uint) (*domain.Order, error)

	// Update persists order-level changes. The write fails atomically with a
	// concurrency conflict when expectedVersion no longer matches the stored
	// row. Line items are immutable and never rewritten.
	Update(ctx context.Context, order *domain.Order, expectedVersion uint) error

	// ListByCustomer retrieves a customer's orders, newest first
	ListByCustomer(ctx context.Context, customerID uint) ([]*domain.Order, error)
}

// ProductCatalog defines the read interface to the product/promotion catalog.
// Get returns a point-in-time snapshot valid for the duration of one request.
type ProductCatalog interface {
	Get(ctx context.Context, productID uint) (*domain.ProductSnapshot, error)
}

// AddressInput is the raw delivery address supplied with an order
type AddressInput struct {
	Street       string
	Number       string
	Neighborhood string
	PostalCode   string
	City         string
	State        string
	Complement   string
	Latitude     float64
	Longitude    float64
}

// AddressStore defines the interface for resolving and storing addresses
type AddressStore interface {
	// Resolve stores the input and returns the immutable snapshot
	Resolve(ctx context.Context, input AddressInput) (domain.Address, error)

	// GetByID retrieves a previously stored address
	GetByID(ctx context.Context, id uint) (domain.Address, error)
}

// EventPublisher defines the interface for publishing lifecycle events.
// Publication is fire-and-forget; failures must never fail the primary
// operation.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, order *domain.Order) error
}
