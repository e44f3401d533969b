package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits stored for balances and amounts.
const Scale = 2

var (
	ErrNotPositive     = errors.New("must be greater than zero")
	ErrTooManyDecimals = errors.New("has too many decimal places")
)

// CheckAmount accepts strictly positive values with at most Scale decimals.
func CheckAmount(value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrNotPositive
	}
	return checkScale(value)
}

// CheckBalance only bounds precision. An overdrawn account may carry a
// negative balance.
func CheckBalance(value decimal.Decimal) error {
	return checkScale(value)
}

func Format(value decimal.Decimal) string {
	return value.StringFixed(Scale)
}

func checkScale(value decimal.Decimal) error {
	if !value.Equal(value.Truncate(Scale)) {
		return ErrTooManyDecimals
	}
	return nil
}
