package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedCurrency reports a currency field outside the
// `"$"DEC | "("DEC")" | "" | "-"` grammar. Unlike a malformed symbol this is
// not recoverable at the row level; the caller decides whether to abort the
// batch.
var ErrMalformedCurrency = errors.New("malformed currency")

// ParseCurrency parses a brokerage currency string. "$X" is positive X, a
// parenthesized amount (with or without the dollar sign) is negative, and ""
// or "-" mean zero. Thousands separators are out of grammar.
func ParseCurrency(value string) (decimal.Decimal, error) {
	if value == "" || value == "-" {
		return decimal.Zero, nil
	}
	if value[0] == '$' {
		d, err := decimal.NewFromString(value[1:])
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedCurrency, value)
		}
		return d, nil
	}
	if value[0] == '(' && value[len(value)-1] == ')' {
		inner := strings.TrimPrefix(value[1:len(value)-1], "$")
		d, err := decimal.NewFromString(inner)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedCurrency, value)
		}
		return d.Neg(), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedCurrency, value)
}
