package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-delivery/pkg/money"
)

// LineItem is one product/quantity entry within an order. Every field is a
// snapshot taken at pricing time; catalog or promotion changes never alter a
// persisted line item.
type LineItem struct {
	ProductID    uint
	ProductName  string
	Quantity     int
	Observations string

	OriginalPrice decimal.Decimal
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal

	// Promotion audit block, immutable post-creation
	HadPromotion       bool
	PromotionName      string
	DiscountAmount     decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// TotalDiscount returns the savings on this line across all units
func (li LineItem) TotalDiscount() decimal.Decimal {
	if !li.HadPromotion {
		return decimal.Zero
	}
	return money.MulInt(li.DiscountAmount, li.Quantity)
}

// Order is the order aggregate: line items, monetary totals and the lifecycle
// state. After creation it is mutated only through sanctioned status
// transitions or the pre-confirmation edits allowed while PENDING.
type Order struct {
	ID         uint
	CustomerID uint
	Items      []LineItem

	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal

	Status             Status
	CancellationReason string
	Observations       string
	Address            Address

	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	PreparingAt  *time.Time
	DispatchedAt *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time

	// Version is the optimistic concurrency token checked at write time
	Version uint
}

// AssembleOrder builds a PENDING order from priced line items and computes its
// totals
func AssembleOrder(customerID uint, items []LineItem, address Address, deliveryFee, discount decimal.Decimal) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if deliveryFee.IsNegative() {
		return nil, NewInvalidMonetaryValue("delivery_fee", deliveryFee)
	}
	if discount.IsNegative() {
		return nil, NewInvalidMonetaryValue("discount", discount)
	}

	order := &Order{
		CustomerID:  customerID,
		Items:       items,
		DeliveryFee: money.Round(deliveryFee),
		Discount:    money.Round(discount),
		Address:     address,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		Version:     1,
	}
	order.CalculateTotals()

	return order, nil
}

// CalculateTotals recomputes subtotal and total from the line items.
// total = max(0, subtotal + deliveryFee - discount)
func (o *Order) CalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = money.Round(subtotal)
	o.Total = money.ClampNonNegative(money.Round(o.Subtotal.Add(o.DeliveryFee).Sub(o.Discount)))
}

// VerifyTotal guards against stale caller-side computation: the supplied total
// must match the recomputed one
func (o *Order) VerifyTotal(expected decimal.Decimal) error {
	if !expected.Equal(o.Total) {
		return NewPricingInconsistency(expected, o.Total)
	}
	return nil
}

// TransitionTo moves the order to target, stamping the matching timestamp.
// Timestamps are write-once; fields for other states are left untouched.
func (o *Order) TransitionTo(target Status, reason string) error {
	if !o.Status.CanTransitionTo(target) {
		return NewInvalidStatusTransition(o.Status, target)
	}
	if target == StatusCancelled && strings.TrimSpace(reason) == "" {
		return ErrMissingCancellationReason
	}

	now := time.Now()
	o.Status = target

	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusPreparing:
		o.PreparingAt = &now
	case StatusDispatched:
		o.DispatchedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
		o.CancellationReason = strings.TrimSpace(reason)
	}

	return nil
}

// editable guards the pre-confirmation edits: only PENDING orders may change
func (o *Order) editable() error {
	if o.Status != StatusPending {
		return NewOrderLocked(o.Status)
	}
	return nil
}

// SetDeliveryFee updates the delivery fee and recomputes totals
func (o *Order) SetDeliveryFee(fee decimal.Decimal) error {
	if err := o.editable(); err != nil {
		return err
	}
	if fee.IsNegative() {
		return NewInvalidMonetaryValue("delivery_fee", fee)
	}
	o.DeliveryFee = money.Round(fee)
	o.CalculateTotals()
	return nil
}

// SetDiscount updates the order-level discount and recomputes totals
func (o *Order) SetDiscount(discount decimal.Decimal) error {
	if err := o.editable(); err != nil {
		return err
	}
	if discount.IsNegative() {
		return NewInvalidMonetaryValue("discount", discount)
	}
	o.Discount = money.Round(discount)
	o.CalculateTotals()
	return nil
}

// SetObservations updates the order's free-text observations
func (o *Order) SetObservations(observations string) error {
	if err := o.editable(); err != nil {
		return err
	}
	o.Observations = observations
	return nil
}

// SetAddress replaces the delivery address snapshot
func (o *Order) SetAddress(address Address) error {
	if err := o.editable(); err != nil {
		return err
	}
	o.Address = address
	return nil
}

// TotalItems returns the sum of all line quantities
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalPromotionDiscount returns the savings from promotions across all lines
func (o *Order) TotalPromotionDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalDiscount())
	}
	return money.Round(total)
}
