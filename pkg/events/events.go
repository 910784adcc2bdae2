package events

import "time"

// Exchange names
const (
	ExchangeOrders = "orders.events"
)

// Routing keys for order lifecycle events
const (
	RoutingKeyOrderCreated    = "order.created"
	RoutingKeyOrderConfirmed  = "order.confirmed"
	RoutingKeyOrderPreparing  = "order.preparing"
	RoutingKeyOrderDispatched = "order.dispatched"
	RoutingKeyOrderDelivered  = "order.delivered"
	RoutingKeyOrderCancelled  = "order.cancelled"
)

// OrderEvent is the envelope published for every order lifecycle change
type OrderEvent struct {
	Version   string       `json:"version"`
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	TraceID   string       `json:"trace_id"`
	Payload   OrderPayload `json:"payload"`
}

// OrderPayload is an immutable snapshot of the order at the time of the event
type OrderPayload struct {
	ID                 uint      `json:"id"`
	CustomerID         uint      `json:"customer_id"`
	Status             string    `json:"status"`
	Subtotal           string    `json:"subtotal"`
	DeliveryFee        string    `json:"delivery_fee"`
	Discount           string    `json:"discount"`
	Total              string    `json:"total"`
	ItemCount          int       `json:"item_count"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewOrderEvent creates an order lifecycle event with the given routing key
// as its event type
func NewOrderEvent(eventType, traceID string, payload OrderPayload) *OrderEvent {
	return &OrderEvent{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}
