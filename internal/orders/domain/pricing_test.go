package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delivery/pkg/money"
)

func activeWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestPriceLine_PercentagePromotion(t *testing.T) {
	now := time.Now()
	starts, ends := activeWindow(now)

	product := ProductSnapshot{
		ID:    1,
		Name:  "X-Burger",
		Price: money.MustFromString("25.90"),
		Promotions: []Promotion{
			{
				ID:                 10,
				Title:              "10% off",
				DiscountPercentage: decimal.NewFromInt(10),
				StartsAt:           starts,
				EndsAt:             ends,
				Active:             true,
			},
		},
	}

	item, err := PriceLine(product, 2, now)
	require.NoError(t, err)

	assert.Equal(t, "25.90", item.OriginalPrice.StringFixed(2))
	assert.Equal(t, "23.31", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "46.62", item.Subtotal.StringFixed(2))
	assert.True(t, item.HadPromotion)
	assert.Equal(t, "10% off", item.PromotionName)
	assert.Equal(t, "2.59", item.DiscountAmount.StringFixed(2))
	assert.Equal(t, "10", item.DiscountPercentage.String())
}

func TestPriceLine_NoPromotion(t *testing.T) {
	product := ProductSnapshot{
		ID:    2,
		Name:  "Fries",
		Price: money.MustFromString("12.50"),
	}

	item, err := PriceLine(product, 3, time.Now())
	require.NoError(t, err)

	assert.False(t, item.HadPromotion)
	assert.Equal(t, "12.50", item.UnitPrice.StringFixed(2))
	assert.True(t, item.UnitPrice.Equal(item.OriginalPrice))
	assert.Equal(t, "37.50", item.Subtotal.StringFixed(2))
	assert.Empty(t, item.PromotionName)
	assert.True(t, item.DiscountAmount.IsZero())
}

func TestPriceLine_ExpiredPromotionIgnored(t *testing.T) {
	now := time.Now()

	product := ProductSnapshot{
		ID:    3,
		Name:  "Soda",
		Price: money.MustFromString("8.00"),
		Promotions: []Promotion{
			{
				ID:             20,
				Title:          "old deal",
				DiscountAmount: money.MustFromString("2.00"),
				StartsAt:       now.Add(-48 * time.Hour),
				EndsAt:         now.Add(-24 * time.Hour),
				Active:         true,
			},
			{
				ID:             21,
				Title:          "inactive deal",
				DiscountAmount: money.MustFromString("3.00"),
				StartsAt:       now.Add(-24 * time.Hour),
				EndsAt:         now.Add(24 * time.Hour),
				Active:         false,
			},
		},
	}

	item, err := PriceLine(product, 1, now)
	require.NoError(t, err)
	assert.False(t, item.HadPromotion)
	assert.Equal(t, "8.00", item.UnitPrice.StringFixed(2))
}

func TestPriceLine_BestPromotionWins(t *testing.T) {
	now := time.Now()
	starts, ends := activeWindow(now)

	product := ProductSnapshot{
		ID:    4,
		Name:  "Combo",
		Price: money.MustFromString("50.00"),
		Promotions: []Promotion{
			{ID: 1, Title: "10% off", DiscountPercentage: decimal.NewFromInt(10), StartsAt: starts, EndsAt: ends, Active: true},
			{ID: 2, Title: "8 off", DiscountAmount: money.MustFromString("8.00"), StartsAt: starts, EndsAt: ends, Active: true},
		},
	}

	item, err := PriceLine(product, 1, now)
	require.NoError(t, err)
	assert.Equal(t, "8 off", item.PromotionName)
	assert.Equal(t, "42.00", item.UnitPrice.StringFixed(2))
}

func TestPriceLine_TieBrokenByLowestID(t *testing.T) {
	now := time.Now()
	starts, ends := activeWindow(now)

	promos := []Promotion{
		{ID: 7, Title: "second", DiscountAmount: money.MustFromString("5.00"), StartsAt: starts, EndsAt: ends, Active: true},
		{ID: 3, Title: "first", DiscountAmount: money.MustFromString("5.00"), StartsAt: starts, EndsAt: ends, Active: true},
	}

	product := ProductSnapshot{ID: 5, Name: "Pizza", Price: money.MustFromString("40.00"), Promotions: promos}

	item, err := PriceLine(product, 1, now)
	require.NoError(t, err)
	assert.Equal(t, "first", item.PromotionName)

	// Same inputs, same audit block, regardless of slice order
	product.Promotions = []Promotion{promos[1], promos[0]}
	again, err := PriceLine(product, 1, now)
	require.NoError(t, err)
	assert.Equal(t, item.PromotionName, again.PromotionName)
	assert.True(t, item.UnitPrice.Equal(again.UnitPrice))
	assert.True(t, item.DiscountAmount.Equal(again.DiscountAmount))
}

func TestPriceLine_AmountPromotionNeverExceedsPrice(t *testing.T) {
	now := time.Now()
	starts, ends := activeWindow(now)

	product := ProductSnapshot{
		ID:    6,
		Name:  "Water",
		Price: money.MustFromString("3.00"),
		Promotions: []Promotion{
			{ID: 1, Title: "big deal", DiscountAmount: money.MustFromString("10.00"), StartsAt: starts, EndsAt: ends, Active: true},
		},
	}

	item, err := PriceLine(product, 2, now)
	require.NoError(t, err)
	assert.Equal(t, "0.00", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "3.00", item.DiscountAmount.StringFixed(2))
	assert.Equal(t, "0.00", item.Subtotal.StringFixed(2))
}

func TestPriceLine_InvalidQuantity(t *testing.T) {
	product := ProductSnapshot{ID: 7, Name: "Juice", Price: money.MustFromString("6.00")}

	for _, qty := range []int{0, -1} {
		_, err := PriceLine(product, qty, time.Now())
		require.Error(t, err)
	}
}

func TestPriceLine_PausedProduct(t *testing.T) {
	product := ProductSnapshot{ID: 8, Name: "Seasonal", Price: money.MustFromString("15.00"), Paused: true}

	_, err := PriceLine(product, 1, time.Now())
	require.Error(t, err)
}

func TestPriceLine_RoundsPerUnitBeforeMultiplying(t *testing.T) {
	now := time.Now()
	starts, ends := activeWindow(now)

	// 33.33% of 9.99 is 3.3297, rounded half-up to 3.33 per unit before the
	// quantity multiplication
	product := ProductSnapshot{
		ID:    9,
		Name:  "Odd",
		Price: money.MustFromString("9.99"),
		Promotions: []Promotion{
			{ID: 1, Title: "third off", DiscountPercentage: money.MustFromString("33.33"), StartsAt: starts, EndsAt: ends, Active: true},
		},
	}

	item, err := PriceLine(product, 3, now)
	require.NoError(t, err)
	assert.Equal(t, "3.33", item.DiscountAmount.StringFixed(2))
	assert.Equal(t, "6.66", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "19.98", item.Subtotal.StringFixed(2))
}
