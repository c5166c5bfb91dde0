package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the persisted form of a Transaction: currency amounts, strike and
// quantity are stored as integers scaled by 100, and the instrument variant
// is flattened into the equity_class discriminator. Trades are inserted once
// and read back; corrections are delete-and-reinsert, never updates.
type Trade struct {
	TransactionID string
	Cusip         string
	Symbol        string
	AccountNumber string
	EquityClass   string
	Strike        int64
	Quantity      int64
	Expiration    *time.Time
	AcquiredDate  time.Time
	SoldDate      time.Time
	Cost          int64
	Proceeds      int64
	Description   string
}

var hundred = decimal.NewFromInt(100)

func toCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

func fromCents(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// TradeFromTransaction maps a Transaction to its persisted form.
func TradeFromTransaction(tx Transaction) Trade {
	trade := Trade{
		TransactionID: tx.ID,
		Cusip:         tx.Cusip,
		Symbol:        tx.Instrument.Symbol,
		AccountNumber: tx.AccountNumber,
		EquityClass:   tx.Instrument.Kind.String(),
		Quantity:      toCents(tx.Quantity),
		AcquiredDate:  tx.AcquiredDate,
		SoldDate:      tx.SoldDate,
		Cost:          toCents(tx.Cost),
		Proceeds:      toCents(tx.Proceeds),
		Description:   tx.Description,
	}
	switch tx.Instrument.Kind {
	case KindCall, KindPut:
		trade.Strike = toCents(tx.Instrument.Strike)
		expiration := tx.Instrument.Expiration
		trade.Expiration = &expiration
	case KindStock:
		// strike stays 0, expiration stays NULL
	}
	return trade
}

// Transaction maps a persisted trade back to its in-memory form. It is the
// inverse of TradeFromTransaction up to cents rounding.
func (t Trade) Transaction() (Transaction, error) {
	kind, ok := KindFromEquityClass(t.EquityClass)
	if !ok {
		return Transaction{}, fmt.Errorf("unknown equity class %q for transaction %s", t.EquityClass, t.TransactionID)
	}
	var instrument Instrument
	switch kind {
	case KindStock:
		instrument = NewStock(t.Symbol)
	case KindCall, KindPut:
		if t.Expiration == nil {
			return Transaction{}, fmt.Errorf("missing expiration for %s transaction %s", t.EquityClass, t.TransactionID)
		}
		if kind == KindCall {
			instrument = NewCall(t.Symbol, fromCents(t.Strike), *t.Expiration)
		} else {
			instrument = NewPut(t.Symbol, fromCents(t.Strike), *t.Expiration)
		}
	}
	return Transaction{
		AccountNumber: t.AccountNumber,
		Instrument:    instrument,
		Cusip:         t.Cusip,
		Description:   t.Description,
		Quantity:      fromCents(t.Quantity),
		AcquiredDate:  t.AcquiredDate,
		SoldDate:      t.SoldDate,
		Cost:          fromCents(t.Cost),
		Proceeds:      fromCents(t.Proceeds),
		ID:            t.TransactionID,
	}, nil
}
