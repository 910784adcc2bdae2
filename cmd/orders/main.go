package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-delivery/internal/orders/adapters"
	"go-delivery/internal/orders/application"
	"go-delivery/internal/orders/infrastructure"
	"go-delivery/internal/orders/ports"
	"go-delivery/pkg/config"
	"go-delivery/pkg/db"
	"go-delivery/pkg/events"
	"go-delivery/pkg/logger"
	"go-delivery/pkg/middleware"
	"go-delivery/pkg/rabbitmq"
	"go-delivery/pkg/tls"
)

func main() {
	// Load configuration
	cfg := config.LoadForService("ORDERS")

	// Initialize logger
	log := logger.New("orders-service", cfg.LogLevel)
	defer log.Sync()

	log.Info("starting orders service")

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize repositories and run migrations
	repo := adapters.NewPostgresOrderRepository(dbConn)
	catalog := adapters.NewPostgresProductCatalog(dbConn)
	addresses := adapters.NewPostgresAddressStore(dbConn)
	for _, migrate := range []func() error{catalog.Migrate, addresses.Migrate, repo.Migrate} {
		if err := migrate(); err != nil {
			log.Fatal("failed to migrate database: " + err.Error())
		}
	}

	// Connect to RabbitMQ
	var publisher *adapters.RabbitMQPublisher
	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeOrders, log)
		if err != nil {
			log.Warn("failed to create publisher: " + err.Error())
		} else {
			publisher = adapters.NewRabbitMQPublisher(pub, log)
		}
	}

	// Initialize service. The publisher stays nil when RabbitMQ is down;
	// order flow keeps working without events.
	var eventPublisher ports.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	service := application.NewOrderService(
		repo,
		catalog,
		addresses,
		eventPublisher,
		application.DeliveryArea{
			StoreLatitude:  cfg.StoreLatitude,
			StoreLongitude: cfg.StoreLongitude,
			MaxDistanceKm:  cfg.MaxDeliveryDistance,
		},
		log,
	)

	// Start HTTP server
	httpHandler := infrastructure.NewHTTPHandler(service)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	httpHandler.RegisterRoutes(api)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	if cfg.TLSEnabled {
		tlsConfig, err := tls.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile, "", false)
		if err != nil {
			log.Fatal("failed to load TLS config: " + err.Error())
		}
		httpServer.TLSConfig = tlsConfig
	}

	go func() {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		var err error
		if cfg.TLSEnabled {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
