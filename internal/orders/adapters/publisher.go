package adapters

import (
	"context"

	"go-delivery/internal/orders/domain"
	"go-delivery/pkg/events"
	"go-delivery/pkg/logger"
	"go-delivery/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishOrderEvent publishes an order lifecycle event. The routing key equals
// the event type (order.created, order.confirmed, ...).
func (p *RabbitMQPublisher) PublishOrderEvent(ctx context.Context, eventType string, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewOrderEvent(eventType, traceID, events.OrderPayload{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Status:             string(order.Status),
		Subtotal:           order.Subtotal.StringFixed(2),
		DeliveryFee:        order.DeliveryFee.StringFixed(2),
		Discount:           order.Discount.StringFixed(2),
		Total:              order.Total.StringFixed(2),
		ItemCount:          order.TotalItems(),
		CancellationReason: order.CancellationReason,
		CreatedAt:          order.CreatedAt,
	})

	return p.publisher.Publish(ctx, eventType, event)
}
