package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"go-delivery/pkg/money"
)

// Promotion is a time-bounded discount rule attached to a product. The
// discount is either a percentage or a fixed amount, never both.
type Promotion struct {
	ID                 uint
	Title              string
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	StartsAt           time.Time
	EndsAt             time.Time
	Active             bool
}

// IsPercentage reports whether the promotion discounts by percentage
func (p Promotion) IsPercentage() bool {
	return p.DiscountPercentage.IsPositive()
}

// CurrentAt reports whether the promotion is active and its validity window
// contains t
func (p Promotion) CurrentAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	return !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// Discount computes the per-unit discount on price. Percentage discounts are
// rounded half-up to two decimals; amount discounts never exceed the price.
func (p Promotion) Discount(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch {
	case p.IsPercentage():
		discount = money.Percent(price, p.DiscountPercentage)
	case p.DiscountAmount.IsPositive():
		discount = money.Round(p.DiscountAmount)
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(price) {
		return price
	}
	return discount
}

// BestPromotion selects, among the promotions current at now, the one yielding
// the greatest absolute savings on price. Ties are broken by lowest promotion
// id so that repeated pricing is reproducible. The second return value is
// false when no promotion yields a positive discount.
func BestPromotion(promotions []Promotion, price decimal.Decimal, now time.Time) (Promotion, bool) {
	var best Promotion
	bestDiscount := decimal.Zero
	found := false

	for _, promo := range promotions {
		if !promo.CurrentAt(now) {
			continue
		}
		discount := promo.Discount(price)
		if !discount.IsPositive() {
			continue
		}
		switch {
		case !found,
			discount.GreaterThan(bestDiscount),
			discount.Equal(bestDiscount) && promo.ID < best.ID:
			best = promo
			bestDiscount = discount
			found = true
		}
	}

	return best, found
}
