package processors

import (
	"github.com/username/mytrades/src/models"
)

// SymbolReport is the per-symbol slice of a report. Transactions keep their
// input order; wash-sale-flagged ones are listed but excluded from the
// totals.
type SymbolReport struct {
	Symbol       string
	Transactions []models.Transaction
	Gains        GainLoss
}

// Report is the aggregated gain/loss report. Groups appear in first-seen
// symbol order.
type Report struct {
	Groups []SymbolReport
	Totals GainLoss
}

// Aggregate groups transactions by symbol, preserving first-seen group order
// and input order within each group, and computes per-group and grand totals.
// Callers wanting a particular listing order are expected to have sorted
// upstream (symbol, then instrument type, then sold date).
func Aggregate(transactions []models.Transaction) Report {
	var report Report
	index := make(map[string]int)
	for _, tx := range transactions {
		symbol := tx.Instrument.Symbol
		i, ok := index[symbol]
		if !ok {
			i = len(report.Groups)
			index[symbol] = i
			report.Groups = append(report.Groups, SymbolReport{Symbol: symbol})
		}
		group := &report.Groups[i]
		group.Transactions = append(group.Transactions, tx)
		if !tx.WashSale {
			group.Gains = group.Gains.add(tx)
			report.Totals = report.Totals.add(tx)
		}
	}
	return report
}
