package adapters

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-delivery/pkg/events"
	"go-delivery/pkg/logger"
	"go-delivery/pkg/rabbitmq"
)

// OrderEventsConsumer consumes order lifecycle events. It backs the notifier
// worker: listeners are decoupled consumers, never called synchronously from
// the pricing or transition path.
type OrderEventsConsumer struct {
	consumer *rabbitmq.Consumer
	log      *logger.Logger
}

// NewOrderEventsConsumer creates a consumer bound to every order lifecycle key
func NewOrderEventsConsumer(conn *rabbitmq.Connection, queue string, log *logger.Logger) (*OrderEventsConsumer, error) {
	consumer, err := rabbitmq.NewConsumer(
		conn,
		queue,
		events.ExchangeOrders,
		[]string{"order.*"},
		log,
	)
	if err != nil {
		return nil, err
	}

	return &OrderEventsConsumer{
		consumer: consumer,
		log:      log,
	}, nil
}

// Start starts consuming order lifecycle events
func (c *OrderEventsConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

func (c *OrderEventsConsumer) handleMessage(ctx context.Context, body []byte) error {
	var event events.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.WithContext(ctx).Error("failed to unmarshal order event",
			zap.Error(err),
		)
		return err
	}

	// Notification dispatch (push/email/SMS) would hang off this point; for
	// now the event is acknowledged and logged
	c.log.WithContext(ctx).Info("order event received",
		zap.String("event_type", event.EventType),
		zap.Uint("order_id", event.Payload.ID),
		zap.Uint("customer_id", event.Payload.CustomerID),
		zap.String("status", event.Payload.Status),
		zap.String("total", event.Payload.Total),
		zap.String("trace_id", event.TraceID),
	)

	return nil
}
