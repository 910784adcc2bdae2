package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-delivery/internal/orders/domain"
	"go-delivery/internal/orders/ports"
	apperrors "go-delivery/pkg/errors"
)

// AddressModel is the GORM model for stored delivery addresses
type AddressModel struct {
	ID           uint    `gorm:"primaryKey"`
	Street       string  `gorm:"size:255;not null"`
	Number       string  `gorm:"size:20;not null"`
	Neighborhood string  `gorm:"size:255;not null"`
	PostalCode   string  `gorm:"size:20;not null"`
	City         string  `gorm:"size:255;not null"`
	State        string  `gorm:"size:2;not null"`
	Complement   string  `gorm:"size:255"`
	Latitude     float64 `gorm:"type:double precision;not null"`
	Longitude    float64 `gorm:"type:double precision;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// PostgresAddressStore implements AddressStore using PostgreSQL
type PostgresAddressStore struct {
	db *gorm.DB
}

// NewPostgresAddressStore creates a new PostgreSQL address store
func NewPostgresAddressStore(db *gorm.DB) *PostgresAddressStore {
	return &PostgresAddressStore{db: db}
}

// Migrate runs auto-migration for the address model
func (s *PostgresAddressStore) Migrate() error {
	return s.db.AutoMigrate(&AddressModel{})
}

// Resolve stores the raw address input and returns the immutable snapshot the
// order will carry
func (s *PostgresAddressStore) Resolve(ctx context.Context, input ports.AddressInput) (domain.Address, error) {
	if strings.TrimSpace(input.Street) == "" || strings.TrimSpace(input.City) == "" {
		return domain.Address{}, apperrors.NewValidation("address requires street and city", nil)
	}

	model := AddressModel{
		Street:       input.Street,
		Number:       input.Number,
		Neighborhood: input.Neighborhood,
		PostalCode:   input.PostalCode,
		City:         input.City,
		State:        input.State,
		Complement:   input.Complement,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Address{}, apperrors.NewInternal("failed to store address", err)
	}

	return toDomainAddress(&model), nil
}

// GetByID retrieves a previously stored address
func (s *PostgresAddressStore) GetByID(ctx context.Context, id uint) (domain.Address, error) {
	var model AddressModel

	result := s.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.Address{}, apperrors.NewNotFound("address", id)
		}
		return domain.Address{}, apperrors.NewInternal("failed to get address", result.Error)
	}

	return toDomainAddress(&model), nil
}

func toDomainAddress(model *AddressModel) domain.Address {
	return domain.Address{
		ID:           model.ID,
		Street:       model.Street,
		Number:       model.Number,
		Neighborhood: model.Neighborhood,
		PostalCode:   model.PostalCode,
		City:         model.City,
		State:        model.State,
		Complement:   model.Complement,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
	}
}
