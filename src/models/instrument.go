package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentKind discriminates the instrument variants. Switches over it
// should be exhaustive; adding a kind means visiting every switch.
type InstrumentKind int

const (
	KindStock InstrumentKind = iota
	KindCall
	KindPut
)

// Equity class discriminator values as persisted in the trade table.
const (
	EquityClassStock = "stock"
	EquityClassCall  = "call"
	EquityClassPut   = "put"
)

func (k InstrumentKind) String() string {
	switch k {
	case KindStock:
		return EquityClassStock
	case KindCall:
		return EquityClassCall
	case KindPut:
		return EquityClassPut
	}
	return "unknown"
}

// KindFromEquityClass maps a persisted equity_class value back to the
// instrument kind.
func KindFromEquityClass(class string) (InstrumentKind, bool) {
	switch class {
	case EquityClassStock:
		return KindStock, true
	case EquityClassCall:
		return KindCall, true
	case EquityClassPut:
		return KindPut, true
	}
	return KindStock, false
}

// Instrument is a tagged union over stocks, calls and puts. Symbol is always
// lower-cased. Strike and Expiration are only meaningful for options and are
// zero otherwise.
type Instrument struct {
	Kind       InstrumentKind
	Symbol     string
	Strike     decimal.Decimal
	Expiration time.Time
}

func NewStock(symbol string) Instrument {
	return Instrument{Kind: KindStock, Symbol: symbol}
}

func NewCall(symbol string, strike decimal.Decimal, expiration time.Time) Instrument {
	return Instrument{Kind: KindCall, Symbol: symbol, Strike: strike, Expiration: expiration}
}

func NewPut(symbol string, strike decimal.Decimal, expiration time.Time) Instrument {
	return Instrument{Kind: KindPut, Symbol: symbol, Strike: strike, Expiration: expiration}
}

// IsOption reports whether the instrument is a call or a put.
func (i Instrument) IsOption() bool {
	return i.Kind == KindCall || i.Kind == KindPut
}
