package money

import "github.com/shopspring/decimal"

// Monetary values are fixed-point with two decimal places. Every intermediate
// result is rounded before further arithmetic so totals are reproducible.

// Zero is the zero monetary value.
var Zero = decimal.Zero

// Round rounds a monetary value to two decimal places, half up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent computes pct percent of amount, rounded to two decimal places.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// MulInt multiplies a per-unit amount by an integer quantity.
func MulInt(amount decimal.Decimal, qty int) decimal.Decimal {
	return Round(amount.Mul(decimal.NewFromInt(int64(qty))))
}

// ClampNonNegative returns zero when d is negative, otherwise d.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FromString parses a decimal string such as "25.90".
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(d), nil
}

// MustFromString parses a decimal string and panics on failure. Test helper.
func MustFromString(s string) decimal.Decimal {
	return Round(decimal.RequireFromString(s))
}
