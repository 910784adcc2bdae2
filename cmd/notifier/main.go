package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-delivery/internal/orders/adapters"
	"go-delivery/pkg/config"
	"go-delivery/pkg/logger"
	"go-delivery/pkg/rabbitmq"
)

// The notifier is a decoupled listener: it consumes order lifecycle events
// from the exchange and dispatches notifications. It never participates in
// the order transaction itself.
func main() {
	cfg := config.LoadForService("NOTIFIER")

	log := logger.New("notifier", cfg.LogLevel)
	defer log.Sync()

	log.Info("starting notifier")

	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ: " + err.Error())
	}
	defer rabbitConn.Close()

	consumer, err := adapters.NewOrderEventsConsumer(rabbitConn, "notifier.order-events", log)
	if err != nil {
		log.Fatal("failed to create consumer: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal("failed to start consumer: " + err.Error())
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("notifier stopped")
}
