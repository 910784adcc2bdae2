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

// ProductModel is the GORM model for catalog products
type ProductModel struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsPaused  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`

	Promotions []PromotionModel `gorm:"many2many:promotion_products"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PromotionModel is the GORM model for promotions. A promotion carries either
// a percentage or a fixed amount; the unused column stays at zero.
type PromotionModel struct {
	ID                 uint            `gorm:"primaryKey"`
	Title              string          `gorm:"size:255;not null"`
	Description        string          `gorm:"type:text"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2)"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(10,2)"`
	StartsAt           time.Time       `gorm:"not null"`
	EndsAt             time.Time       `gorm:"not null"`
	Active             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PromotionModel) TableName() string {
	return "promotions"
}

// PostgresProductCatalog implements ProductCatalog using PostgreSQL
type PostgresProductCatalog struct {
	db *gorm.DB
}

// NewPostgresProductCatalog creates a new PostgreSQL product catalog
func NewPostgresProductCatalog(db *gorm.DB) *PostgresProductCatalog {
	return &PostgresProductCatalog{db: db}
}

// Migrate runs auto-migration for the catalog models
func (c *PostgresProductCatalog) Migrate() error {
	return c.db.AutoMigrate(&ProductModel{}, &PromotionModel{})
}

// Get returns a point-in-time snapshot of a product and its active
// promotions. The snapshot is a copy; later catalog changes cannot affect a
// pricing operation already holding it.
func (c *PostgresProductCatalog) Get(ctx context.Context, productID uint) (*domain.ProductSnapshot, error) {
	var model ProductModel

	result := c.db.WithContext(ctx).
		Preload("Promotions", "active = ?", true).
		First(&model, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(productID)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	snapshot := &domain.ProductSnapshot{
		ID:         model.ID,
		Name:       model.Name,
		Price:      model.Price,
		Paused:     model.IsPaused,
		Promotions: make([]domain.Promotion, len(model.Promotions)),
	}
	for i, promo := range model.Promotions {
		snapshot.Promotions[i] = domain.Promotion{
			ID:                 promo.ID,
			Title:              promo.Title,
			DiscountPercentage: promo.DiscountPercentage,
			DiscountAmount:     promo.DiscountAmount,
			StartsAt:           promo.StartsAt,
			EndsAt:             promo.EndsAt,
			Active:             promo.Active,
		}
	}

	return snapshot, nil
}
