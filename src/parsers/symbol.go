package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedSymbol reports a holding descriptor that does not match the
// ROOT[YYMMDD][C|P][STRIKE](IDENTIFIER) grammar.
var ErrMalformedSymbol = errors.New("malformed symbol")

const (
	optionTypes      = "cpCP"
	optionDateFormat = "060102"
)

// DecodedSymbol is the result of decoding a holding descriptor. OptionType is
// 'c' or 'p' for options and 0 for stocks; Strike and Expiration are only set
// for options.
type DecodedSymbol struct {
	Symbol     string
	Cusip      string
	OptionType byte
	Strike     decimal.Decimal
	Expiration time.Time
}

// IsOption reports whether the descriptor carried an option suffix.
func (d DecodedSymbol) IsOption() bool { return d.OptionType != 0 }

// DecodeSymbol parses a composite holding descriptor such as
// "ROOT140620C15.50(CUSIP123)" into its root symbol, cusip-like identifier
// and option metadata. The root symbol is normalized to lower case; callers
// must not assume original case survives.
func DecodeSymbol(value string) (DecodedSymbol, error) {
	open := strings.LastIndex(value, "(")
	if open < 0 || !strings.HasSuffix(value, ")") || len(value)-1 <= open {
		return DecodedSymbol{}, fmt.Errorf("%w: %q", ErrMalformedSymbol, value)
	}
	cusip := value[open+1 : len(value)-1]
	raw := value[:open]

	digit := -1
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digit = i
			break
		}
	}
	if digit == -1 {
		// No digits at all: plain stock descriptor.
		return DecodedSymbol{Symbol: strings.ToLower(raw), Cusip: cusip}, nil
	}

	// Common case: a six-digit date immediately followed by the option type.
	if digit > 0 && digit+6 < len(raw) && strings.IndexByte(optionTypes, raw[digit+6]) >= 0 {
		return decodeOption(value, raw, cusip, digit, digit+6)
	}

	// Roots may themselves contain digits (e.g. "BRK2"). Scan forward for the
	// first option-type character and anchor the date block six bytes before it.
	for n := digit + 7; n < len(raw); n++ {
		if strings.IndexByte(optionTypes, raw[n]) >= 0 {
			return decodeOption(value, raw, cusip, n-6, n)
		}
	}
	return DecodedSymbol{}, fmt.Errorf("%w: %q", ErrMalformedSymbol, value)
}

func decodeOption(value, raw, cusip string, dateStart, typePos int) (DecodedSymbol, error) {
	if dateStart < 0 || typePos+1 >= len(raw) {
		return DecodedSymbol{}, fmt.Errorf("%w: %q", ErrMalformedSymbol, value)
	}
	expiration, err := time.Parse(optionDateFormat, raw[dateStart:typePos])
	if err != nil {
		return DecodedSymbol{}, fmt.Errorf("%w: %q: bad expiration", ErrMalformedSymbol, value)
	}
	strike, err := decimal.NewFromString(raw[typePos+1:])
	if err != nil {
		return DecodedSymbol{}, fmt.Errorf("%w: %q: bad strike", ErrMalformedSymbol, value)
	}
	optionType := raw[typePos]
	if optionType == 'C' || optionType == 'P' {
		optionType += 'a' - 'A'
	}
	return DecodedSymbol{
		Symbol:     strings.ToLower(raw[:dateStart]),
		Cusip:      cusip,
		OptionType: optionType,
		Strike:     strike,
		Expiration: expiration,
	}, nil
}
