package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-delivery/internal/orders/domain"
	"go-delivery/internal/orders/ports"
	"go-delivery/pkg/errors"
	"go-delivery/pkg/events"
	"go-delivery/pkg/geo"
	"go-delivery/pkg/logger"
)

// DeliveryArea holds the store location and the radius the store delivers to
type DeliveryArea struct {
	StoreLatitude  float64
	StoreLongitude float64
	MaxDistanceKm  float64
}

// partnerLinks are offered when an address falls outside the delivery area
var partnerLinks = map[string]string{
	"ifood":  "https://www.ifood.com.br",
	"99food": "https://www.99food.com.br",
}

// OrderService orchestrates order creation and updates: it resolves external
// inputs, prices the cart, assembles the aggregate, persists it and emits
// lifecycle events.
type OrderService struct {
	repo      ports.OrderRepository
	catalog   ports.ProductCatalog
	addresses ports.AddressStore
	publisher ports.EventPublisher
	area      DeliveryArea
	log       *logger.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	repo ports.OrderRepository,
	catalog ports.ProductCatalog,
	addresses ports.AddressStore,
	publisher ports.EventPublisher,
	area DeliveryArea,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		repo:      repo,
		catalog:   catalog,
		addresses: addresses,
		publisher: publisher,
		area:      area,
		log:       log,
	}
}

// CartItemInput is one requested cart line
type CartItemInput struct {
	ProductID    uint
	Quantity     int
	Observations string
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	CustomerID  uint
	Items       []CartItemInput
	Address     ports.AddressInput
	DeliveryFee *decimal.Decimal
	Discount    *decimal.Decimal
	// ExpectedTotal, when set, is verified against the recomputed total as a
	// defense against stale client-side pricing
	ExpectedTotal *decimal.Decimal
}

// CreateOrderOutput represents the output of creating an order
type CreateOrderOutput struct {
	Order *domain.Order
	// RedirectToPartners is set when the address is outside the delivery area;
	// no order is created in that case
	RedirectToPartners bool
	PartnerLinks       map[string]string
}

// CreateOrder prices every cart line, assembles the order, persists it and
// publishes OrderCreated. The whole operation aborts on the first line error;
// partial orders are never persisted.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	address, err := s.addresses.Resolve(ctx, input.Address)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) || errors.Is(err, errors.CodeValidation) {
			return nil, domain.ErrAddressUnresolved
		}
		return nil, errors.Wrap(err, "failed to resolve delivery address")
	}

	distance := geo.DistanceKm(s.area.StoreLatitude, s.area.StoreLongitude, address.Latitude, address.Longitude)
	if distance > s.area.MaxDistanceKm {
		s.log.WithContext(ctx).Info("address outside delivery area, redirecting to partners",
			zap.Float64("distance_km", distance),
			zap.Float64("max_km", s.area.MaxDistanceKm),
		)
		return &CreateOrderOutput{
			RedirectToPartners: true,
			PartnerLinks:       partnerLinks,
		}, nil
	}

	// One pricing instant for the whole cart: promotions cannot change under
	// the same request
	now := time.Now()

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		item, err := domain.PriceLine(*product, line.Quantity, now)
		if err != nil {
			return nil, err
		}
		item.Observations = line.Observations
		items = append(items, item)
	}

	deliveryFee := decimal.Zero
	if input.DeliveryFee != nil {
		deliveryFee = *input.DeliveryFee
	}
	discount := decimal.Zero
	if input.Discount != nil {
		discount = *input.Discount
	}

	order, err := domain.AssembleOrder(input.CustomerID, items, address, deliveryFee, discount)
	if err != nil {
		return nil, err
	}

	if input.ExpectedTotal != nil {
		if err := order.VerifyTotal(*input.ExpectedTotal); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	s.publish(ctx, events.RoutingKeyOrderCreated, order)

	s.log.WithContext(ctx).Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("customer_id", order.CustomerID),
		zap.Int("items", order.TotalItems()),
		zap.String("total", order.Total.StringFixed(2)),
	)

	return &CreateOrderOutput{Order: order}, nil
}

// UpdateOrderInput represents either a status update or a pre-confirmation
// field edit, never both
type UpdateOrderInput struct {
	OrderID uint

	// Status update
	Status *domain.Status
	Reason string

	// Field edits, permitted only while PENDING
	DeliveryFee  *decimal.Decimal
	Discount     *decimal.Decimal
	Observations *string
	AddressID    *uint
}

func (in UpdateOrderInput) hasFieldEdits() bool {
	return in.DeliveryFee != nil || in.Discount != nil || in.Observations != nil || in.AddressID != nil
}

// UpdateOrderOutput represents the output of updating an order
type UpdateOrderOutput struct {
	Order *domain.Order
}

// UpdateOrder loads the order, applies a status transition or a field edit,
// recomputes totals and persists with an optimistic version check. A stale
// version surfaces as a concurrency conflict with no change applied.
func (s *OrderService) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*UpdateOrderOutput, error) {
	if input.Status != nil && input.hasFieldEdits() {
		return nil, errors.NewValidation("status update and field edits are mutually exclusive", nil)
	}
	if input.Status == nil && !input.hasFieldEdits() {
		return nil, errors.NewValidation("update requires a status or at least one editable field", nil)
	}

	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	loadedVersion := order.Version

	eventType := ""
	if input.Status != nil {
		if err := order.TransitionTo(*input.Status, input.Reason); err != nil {
			return nil, err
		}
		eventType = eventTypeForStatus(*input.Status)
	} else {
		if err := s.applyFieldEdits(ctx, order, input); err != nil {
			return nil, err
		}
	}

	order.CalculateTotals()

	if err := s.repo.Update(ctx, order, loadedVersion); err != nil {
		return nil, err
	}

	if eventType != "" {
		s.publish(ctx, eventType, order)
	}

	s.log.WithContext(ctx).Info("order updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.Uint("version", order.Version),
	)

	return &UpdateOrderOutput{Order: order}, nil
}

func (s *OrderService) applyFieldEdits(ctx context.Context, order *domain.Order, input UpdateOrderInput) error {
	if input.DeliveryFee != nil {
		if err := order.SetDeliveryFee(*input.DeliveryFee); err != nil {
			return err
		}
	}
	if input.Discount != nil {
		if err := order.SetDiscount(*input.Discount); err != nil {
			return err
		}
	}
	if input.Observations != nil {
		if err := order.SetObservations(*input.Observations); err != nil {
			return err
		}
	}
	if input.AddressID != nil {
		address, err := s.addresses.GetByID(ctx, *input.AddressID)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return domain.ErrAddressUnresolved
			}
			return err
		}
		if err := order.SetAddress(address); err != nil {
			return err
		}
	}
	return nil
}

// GetOrderInput represents the input for getting an order
type GetOrderInput struct {
	ID uint
}

// GetOrderOutput represents the output of getting an order
type GetOrderOutput struct {
	Order *domain.Order
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, input GetOrderInput) (*GetOrderOutput, error) {
	order, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOrderOutput{Order: order}, nil
}

// ListCustomerOrders retrieves a customer's orders, newest first
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uint) ([]*domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// publish emits a lifecycle event best-effort: a failure is logged, never
// propagated as an order error
func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, eventType, order); err != nil {
		s.log.WithContext(ctx).Error("failed to publish order event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.Uint("order_id", order.ID),
		)
	}
}

func eventTypeForStatus(status domain.Status) string {
	switch status {
	case domain.StatusConfirmed:
		return events.RoutingKeyOrderConfirmed
	case domain.StatusPreparing:
		return events.RoutingKeyOrderPreparing
	case domain.StatusDispatched:
		return events.RoutingKeyOrderDispatched
	case domain.StatusDelivered:
		return events.RoutingKeyOrderDelivered
	case domain.StatusCancelled:
		return events.RoutingKeyOrderCancelled
	default:
		return ""
	}
}
