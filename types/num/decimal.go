package num

import (
	"github.com/shopspring/decimal"
)

// Decimal is the exact decimal representation used for every monetary
// quantity in the venue. Binary floating point is never used for money.
type Decimal = decimal.Decimal

// Zero returns a decimal with a value of 0.
func Zero() Decimal {
	return decimal.Zero
}

// NewDecimalFromFloat returns the decimal representation of a float.
func NewDecimalFromFloat(f float64) Decimal {
	return decimal.NewFromFloat(f)
}

// NewDecimalFromInt64 returns the decimal representation of an int64.
func NewDecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

// DecimalFromString parses the string representation of a decimal.
func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimalFromString parses the string representation of a decimal and
// panics on failure. For use with literals only.
func MustDecimalFromString(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MinD returns the smallest of the two decimals.
func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MaxD returns the largest of the two decimals.
func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
