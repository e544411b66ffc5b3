package checkout

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = fmt.Errorf("amount is an invalid format")

// Amounts come straight from an HTML form field, so only one canonical shape
// is accepted: digits with an optional fractional part. No currency symbols,
// no thousands separators, no exponents, no locale guessing.
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAmount parses a raw form value into an exact decimal amount. Exact
// decimal semantics avoid the cent-level drift binary floats would introduce.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(raw) {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	return amount, nil
}
