package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-delivery/internal/orders/domain"
	apperrors "go-delivery/pkg/errors"
)

// AddressColumns is the embedded address snapshot stored with each order
type AddressColumns struct {
	Street       string  `gorm:"size:255"`
	Number       string  `gorm:"size:20"`
	Neighborhood string  `gorm:"size:255"`
	PostalCode   string  `gorm:"size:20"`
	City         string  `gorm:"size:255"`
	State        string  `gorm:"size:2"`
	Complement   string  `gorm:"size:255"`
	Latitude     float64 `gorm:"type:double precision"`
	Longitude    float64 `gorm:"type:double precision"`
}

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID         uint          `gorm:"primaryKey"`
	CustomerID uint          `gorm:"index;not null"`
	Status     domain.Status `gorm:"size:20;not null;default:'PENDING'"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Observations       string `gorm:"type:text"`
	CancellationReason string `gorm:"type:text"`

	AddressID uint
	Address   AddressColumns `gorm:"embedded;embeddedPrefix:addr_"`

	Version uint `gorm:"not null;default:1"`

	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ConfirmedAt  *time.Time
	PreparingAt  *time.Time
	DispatchedAt *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order line items. Rows are written once
// at order creation and never updated afterwards.
type OrderItemModel struct {
	ID       uint `gorm:"primaryKey"`
	OrderID  uint `gorm:"index;not null"`
	Position int  `gorm:"not null"`

	ProductID    uint   `gorm:"not null"`
	ProductName  string `gorm:"size:255;not null"`
	Quantity     int    `gorm:"not null"`
	Observations string `gorm:"type:text"`

	OriginalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	HadPromotion       bool            `gorm:"not null;default:false"`
	PromotionName      string          `gorm:"size:255"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(10,2)"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create persists a new order and its line items in one transaction
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return apperrors.NewInternal("failed to create order", err)
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.Version = model.Version

	return nil
}

// GetByID retrieves an order by ID, line items in cart order
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomainOrder(&model), nil
}

// Update persists order-level changes with an optimistic version check. The
// row is only touched when the stored version still matches expectedVersion;
// otherwise the write is rejected with a concurrency conflict.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order, expectedVersion uint) error {
	updates := map[string]interface{}{
		"status":              order.Status,
		"subtotal":            order.Subtotal,
		"delivery_fee":        order.DeliveryFee,
		"discount":            order.Discount,
		"total":               order.Total,
		"observations":        order.Observations,
		"cancellation_reason": order.CancellationReason,
		"address_id":          order.Address.ID,
		"addr_street":         order.Address.Street,
		"addr_number":         order.Address.Number,
		"addr_neighborhood":   order.Address.Neighborhood,
		"addr_postal_code":    order.Address.PostalCode,
		"addr_city":           order.Address.City,
		"addr_state":          order.Address.State,
		"addr_complement":     order.Address.Complement,
		"addr_latitude":       order.Address.Latitude,
		"addr_longitude":      order.Address.Longitude,
		"confirmed_at":        order.ConfirmedAt,
		"preparing_at":        order.PreparingAt,
		"dispatched_at":       order.DispatchedAt,
		"delivered_at":        order.DeliveredAt,
		"cancelled_at":        order.CancelledAt,
		"version":             expectedVersion + 1,
	}

	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the row is gone or someone else won the version race
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return apperrors.NewInternal("failed to update order", err)
		}
		if count == 0 {
			return domain.NewOrderNotFound(order.ID)
		}
		return domain.NewConcurrencyConflict(order.ID)
	}

	order.Version = expectedVersion + 1
	return nil
}

// ListByCustomer retrieves a customer's orders, newest first
func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = toDomainOrder(&models[i])
	}

	return orders, nil
}

// toOrderModel converts a domain aggregate to GORM models
func toOrderModel(order *domain.Order) *OrderModel {
	model := &OrderModel{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Status:             order.Status,
		Subtotal:           order.Subtotal,
		DeliveryFee:        order.DeliveryFee,
		Discount:           order.Discount,
		Total:              order.Total,
		Observations:       order.Observations,
		CancellationReason: order.CancellationReason,
		AddressID:          order.Address.ID,
		Address: AddressColumns{
			Street:       order.Address.Street,
			Number:       order.Address.Number,
			Neighborhood: order.Address.Neighborhood,
			PostalCode:   order.Address.PostalCode,
			City:         order.Address.City,
			State:        order.Address.State,
			Complement:   order.Address.Complement,
			Latitude:     order.Address.Latitude,
			Longitude:    order.Address.Longitude,
		},
		Version:      order.Version,
		CreatedAt:    order.CreatedAt,
		ConfirmedAt:  order.ConfirmedAt,
		PreparingAt:  order.PreparingAt,
		DispatchedAt: order.DispatchedAt,
		DeliveredAt:  order.DeliveredAt,
		CancelledAt:  order.CancelledAt,
	}

	model.Items = make([]OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		model.Items[i] = OrderItemModel{
			Position:           i,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			Observations:       item.Observations,
			OriginalPrice:      item.OriginalPrice,
			UnitPrice:          item.UnitPrice,
			Subtotal:           item.Subtotal,
			HadPromotion:       item.HadPromotion,
			PromotionName:      item.PromotionName,
			DiscountAmount:     item.DiscountAmount,
			DiscountPercentage: item.DiscountPercentage,
		}
	}

	return model
}

// toDomainOrder converts GORM models to the domain aggregate
func toDomainOrder(model *OrderModel) *domain.Order {
	order := &domain.Order{
		ID:                 model.ID,
		CustomerID:         model.CustomerID,
		Status:             model.Status,
		Subtotal:           model.Subtotal,
		DeliveryFee:        model.DeliveryFee,
		Discount:           model.Discount,
		Total:              model.Total,
		Observations:       model.Observations,
		CancellationReason: model.CancellationReason,
		Address: domain.Address{
			ID:           model.AddressID,
			Street:       model.Address.Street,
			Number:       model.Address.Number,
			Neighborhood: model.Address.Neighborhood,
			PostalCode:   model.Address.PostalCode,
			City:         model.Address.City,
			State:        model.Address.State,
			Complement:   model.Address.Complement,
			Latitude:     model.Address.Latitude,
			Longitude:    model.Address.Longitude,
		},
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		ConfirmedAt:  model.ConfirmedAt,
		PreparingAt:  model.PreparingAt,
		DispatchedAt: model.DispatchedAt,
		DeliveredAt:  model.DeliveredAt,
		CancelledAt:  model.CancelledAt,
	}

	order.Items = make([]domain.LineItem, len(model.Items))
	for i, item := range model.Items {
		order.Items[i] = domain.LineItem{
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			Observations:       item.Observations,
			OriginalPrice:      item.OriginalPrice,
			UnitPrice:          item.UnitPrice,
			Subtotal:           item.Subtotal,
			HadPromotion:       item.HadPromotion,
			PromotionName:      item.PromotionName,
			DiscountAmount:     item.DiscountAmount,
			DiscountPercentage: item.DiscountPercentage,
		}
	}

	return order
}
