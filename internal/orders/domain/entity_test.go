package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delivery/pkg/money"
)

func testItems() []LineItem {
	return []LineItem{
		{
			ProductID:          1,
			ProductName:        "X-Burger",
			Quantity:           2,
			OriginalPrice:      money.MustFromString("25.90"),
			UnitPrice:          money.MustFromString("23.31"),
			Subtotal:           money.MustFromString("46.62"),
			HadPromotion:       true,
			PromotionName:      "10% off",
			DiscountAmount:     money.MustFromString("2.59"),
			DiscountPercentage: decimal.NewFromInt(10),
		},
		{
			ProductID:     2,
			ProductName:   "Fries",
			Quantity:      1,
			OriginalPrice: money.MustFromString("12.50"),
			UnitPrice:     money.MustFromString("12.50"),
			Subtotal:      money.MustFromString("12.50"),
		},
	}
}

func testAddress() Address {
	return Address{
		ID:     1,
		Street: "Rua Augusta",
		Number: "1200",
		City:   "São Paulo",
		State:  "SP",
	}
}

func TestAssembleOrder_Totals(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), money.MustFromString("5.00"), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "59.12", order.Subtotal.StringFixed(2))
	assert.Equal(t, "64.12", order.Total.StringFixed(2))
	assert.False(t, order.CreatedAt.IsZero())
	assert.Nil(t, order.ConfirmedAt)
	assert.Equal(t, uint(1), order.Version)
	assert.Equal(t, 3, order.TotalItems())
	assert.Equal(t, "5.18", order.TotalPromotionDiscount().StringFixed(2))
}

func TestAssembleOrder_SubtotalMatchesItems(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, order.Subtotal.Equal(sum))
}

func TestAssembleOrder_EmptyOrder(t *testing.T) {
	_, err := AssembleOrder(1, nil, testAddress(), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestAssembleOrder_NegativeFeeRejected(t *testing.T) {
	_, err := AssembleOrder(1, testItems(), testAddress(), money.MustFromString("-1.00"), decimal.Zero)
	assert.Error(t, err)
}

func TestCalculateTotals_ClampedAtZero(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, money.MustFromString("100.00"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", order.Total.StringFixed(2))
}

func TestVerifyTotal(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), money.MustFromString("5.00"), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.VerifyTotal(money.MustFromString("64.12")))
	assert.Error(t, order.VerifyTotal(money.MustFromString("60.00")))
}

func TestTransition_HappyPath(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(StatusConfirmed, ""))
	require.NotNil(t, order.ConfirmedAt)

	require.NoError(t, order.TransitionTo(StatusPreparing, ""))
	require.NotNil(t, order.PreparingAt)

	require.NoError(t, order.TransitionTo(StatusDispatched, ""))
	require.NotNil(t, order.DispatchedAt)

	require.NoError(t, order.TransitionTo(StatusDelivered, ""))
	require.NotNil(t, order.DeliveredAt)

	assert.Nil(t, order.CancelledAt)
	assert.False(t, order.ConfirmedAt.After(*order.PreparingAt))
	assert.False(t, order.PreparingAt.After(*order.DispatchedAt))
	assert.False(t, order.DispatchedAt.After(*order.DeliveredAt))
}

func TestTransition_AdjacencyTable(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDispatched, StatusDelivered, StatusCancelled}
	legal := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusPreparing, StatusCancelled},
		StatusPreparing:  {StatusDispatched, StatusCancelled},
		StatusDispatched: {StatusDelivered},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for from, targets := range legal {
		allowed := map[Status]bool{}
		for _, to := range targets {
			allowed[to] = true
		}
		for _, to := range all {
			assert.Equal(t, allowed[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTransition_IllegalMoveRejected(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	err = order.TransitionTo(StatusDispatched, "")
	require.Error(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Nil(t, order.DispatchedAt)
}

func TestTransition_CancelRequiresReason(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	err = order.TransitionTo(StatusCancelled, "   ")
	assert.ErrorIs(t, err, ErrMissingCancellationReason)
	assert.Equal(t, StatusPending, order.Status)

	require.NoError(t, order.TransitionTo(StatusCancelled, "customer gave up"))
	assert.Equal(t, "customer gave up", order.CancellationReason)
	require.NotNil(t, order.CancelledAt)
}

func TestTransition_CancelAfterDispatchRejected(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(StatusConfirmed, ""))
	require.NoError(t, order.TransitionTo(StatusPreparing, ""))
	require.NoError(t, order.TransitionTo(StatusDispatched, ""))

	err = order.TransitionTo(StatusCancelled, "too late")
	require.Error(t, err)
	assert.Equal(t, StatusDispatched, order.Status)
	assert.Empty(t, order.CancellationReason)
}

func TestTransition_TerminalStates(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDispatched} {
		assert.False(t, s.IsTerminal())
	}
}

func TestPreConfirmationEdits(t *testing.T) {
	order, err := AssembleOrder(1, testItems(), testAddress(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.SetDeliveryFee(money.MustFromString("7.50")))
	require.NoError(t, order.SetDiscount(money.MustFromString("2.00")))
	require.NoError(t, order.SetObservations("no onions"))
	assert.Equal(t, "64.62", order.Total.StringFixed(2))

	require.NoError(t, order.TransitionTo(StatusConfirmed, ""))

	assert.Error(t, order.SetDeliveryFee(money.MustFromString("9.00")))
	assert.Error(t, order.SetDiscount(decimal.Zero))
	assert.Error(t, order.SetObservations("changed my mind"))
	assert.Error(t, order.SetAddress(Address{ID: 2}))

	// Locked edits leave the order untouched
	assert.Equal(t, "7.50", order.DeliveryFee.StringFixed(2))
	assert.Equal(t, "no onions", order.Observations)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseStatus("confirmed")
	assert.Error(t, err)

	_, err = ParseStatus("SHIPPED")
	assert.Error(t, err)
}
