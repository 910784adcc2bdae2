package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"go-delivery/pkg/money"
)

// ProductSnapshot is the point-in-time view of a catalog product used for
// pricing. Promotions discovered here cannot change under the same request.
type ProductSnapshot struct {
	ID         uint
	Name       string
	Price      decimal.Decimal
	Paused     bool
	Promotions []Promotion
}

// PriceLine prices one cart line against a product snapshot, applying the best
// promotion current at now. The returned line item carries the full promotion
// audit block and is frozen from this point on.
func PriceLine(product ProductSnapshot, quantity int, now time.Time) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, NewInvalidQuantity(quantity)
	}
	if product.Paused {
		return LineItem{}, NewUnavailableProduct(product.Name)
	}

	item := LineItem{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      quantity,
		OriginalPrice: money.Round(product.Price),
	}
	item.UnitPrice = item.OriginalPrice

	if promo, ok := BestPromotion(product.Promotions, item.OriginalPrice, now); ok {
		discount := promo.Discount(item.OriginalPrice)
		item.HadPromotion = true
		item.PromotionName = promo.Title
		item.DiscountAmount = discount
		if promo.IsPercentage() {
			item.DiscountPercentage = promo.DiscountPercentage
		}
		item.UnitPrice = money.ClampNonNegative(item.OriginalPrice.Sub(discount))
	}

	// Per-unit price is rounded before multiplication so line subtotals are
	// reproducible across implementations
	item.Subtotal = money.MulInt(item.UnitPrice, item.Quantity)

	return item, nil
}
