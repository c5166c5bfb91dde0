package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/mytrades/src/daterange"
	"github.com/username/mytrades/src/models"
)

// oneYear is the literal 365-day holding-period threshold. The tax boundary
// is defined on elapsed days, not calendar years, so leap years are
// deliberately ignored.
const oneYear = 365 * 24 * time.Hour

// washSaleWindowDays is the half-width of the wash-sale window.
const washSaleWindowDays = 30

// Term is the holding-period classification of a gain.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

// Classify returns the term of a transaction's gain. Options are always
// short-term regardless of holding period. Equities are long-term only when
// held strictly more than 365 days; exactly 365 days is short-term.
func Classify(tx models.Transaction) Term {
	if tx.Instrument.IsOption() {
		return ShortTerm
	}
	if tx.HoldingPeriod() > oneYear {
		return LongTerm
	}
	return ShortTerm
}

// GainLoss holds accumulated short- and long-term gains.
type GainLoss struct {
	ShortTerm decimal.Decimal
	LongTerm  decimal.Decimal
}

// Total returns short-term plus long-term gain.
func (g GainLoss) Total() decimal.Decimal {
	return g.ShortTerm.Add(g.LongTerm)
}

func (g GainLoss) add(tx models.Transaction) GainLoss {
	switch Classify(tx) {
	case LongTerm:
		g.LongTerm = g.LongTerm.Add(tx.Gain())
	default:
		g.ShortTerm = g.ShortTerm.Add(tx.Gain())
	}
	return g
}

// SplitGains accumulates the short/long-term gain split over transactions.
// Wash-sale-flagged transactions are excluded.
func SplitGains(transactions []models.Transaction) GainLoss {
	var gl GainLoss
	for _, tx := range transactions {
		if tx.WashSale {
			continue
		}
		gl = gl.add(tx)
	}
	return gl
}

// FlagWashSales returns a copy of the transactions with the wash-sale flag
// set. A transaction is flagged when its acquired or sold date falls inside
// the ±30-day window around any reference date. Options are additionally
// flagged when their expiration exactly matches an entry of the expirations
// set.
func FlagWashSales(transactions []models.Transaction, refs []time.Time, expirations *daterange.Set) []models.Transaction {
	windows := daterange.WashSaleWindows(refs, washSaleWindowDays)
	flagged := make([]models.Transaction, len(transactions))
	for i, tx := range transactions {
		tx.WashSale = windows.Match(tx.AcquiredDate) || windows.Match(tx.SoldDate)
		if !tx.WashSale && tx.Instrument.IsOption() {
			tx.WashSale = expirations.MatchExact(tx.Instrument.Expiration)
		}
		flagged[i] = tx
	}
	return flagged
}
