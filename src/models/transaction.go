package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the normalized in-memory form of one gain/loss row. It is a
// value type: produced once per row by the builder and never mutated except
// for the wash-sale flag set during classification.
type Transaction struct {
	AccountNumber string
	Instrument    Instrument
	Cusip         string
	Description   string
	Quantity      decimal.Decimal
	AcquiredDate  time.Time
	SoldDate      time.Time
	Cost          decimal.Decimal
	Proceeds      decimal.Decimal
	ID            string
	WashSale      bool
}

// Gain returns proceeds minus cost.
func (t Transaction) Gain() decimal.Decimal {
	return t.Proceeds.Sub(t.Cost)
}

// HoldingPeriod returns how long the position was held.
func (t Transaction) HoldingPeriod() time.Duration {
	return t.SoldDate.Sub(t.AcquiredDate)
}
