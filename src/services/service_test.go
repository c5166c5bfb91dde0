package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mytrades/src/database"
	"github.com/username/mytrades/src/query"
	"github.com/username/mytrades/src/store"
)

const exportCSV = `Symbol,Description,Quantity,Date Acquired,Date Sold,Proceeds,Cost
AAPL(037833100),APPLE INC,10,06/01/2020,06/20/2021,$500.00,$300.00
XYZ210618C120.50(92345A107),XYZ CALL,1,05/01/2021,06/01/2021,$200.00,$50.00
`

func newTestServices(t *testing.T) (*IngestService, *ReportService) {
	t.Helper()
	db, err := database.Open(database.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tradeStore := store.New(db)
	reportCache := NewReportCache(0)
	return NewIngestService(tradeStore, reportCache), NewReportService(tradeStore, reportCache)
}

func TestIngestAndReport(t *testing.T) {
	ingest, reports := newTestServices(t)

	result, err := ingest.Ingest(strings.NewReader(exportCSV), "X12345", "joint")
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Parsed: 2, Inserted: 2}, result)

	report, err := reports.FilteredReport(ReportRequest{})
	require.NoError(t, err)

	require.Len(t, report.Groups, 2)
	// The stock was held 384 days (long-term); the option is always short.
	assert.Equal(t, "200.00", report.Totals.LongTerm.StringFixed(2))
	assert.Equal(t, "150.00", report.Totals.ShortTerm.StringFixed(2))
	assert.Equal(t, "350.00", report.Totals.Total().StringFixed(2))
}

func TestReIngestingSameFileIsIdempotent(t *testing.T) {
	ingest, reports := newTestServices(t)

	_, err := ingest.Ingest(strings.NewReader(exportCSV), "X12345", "joint")
	require.NoError(t, err)
	result, err := ingest.Ingest(strings.NewReader(exportCSV), "X12345", "joint")
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Parsed: 2, Inserted: 0}, result)

	transactions, err := reports.QueryTransactions(query.FilterSpec{})
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}

func TestFilteredReportAppliesFilterAndWashSales(t *testing.T) {
	ingest, reports := newTestServices(t)
	_, err := ingest.Ingest(strings.NewReader(exportCSV), "X12345", "single")
	require.NoError(t, err)

	// Only the option, flagged because it sold within 30 days of the
	// reference date: nothing contributes to realized totals.
	report, err := reports.FilteredReport(ReportRequest{
		Filter:        query.FilterSpec{Symbols: []string{"xyz"}},
		WashSaleDates: "210615",
	})
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	assert.Len(t, report.Groups[0].Transactions, 1)
	assert.True(t, report.Groups[0].Transactions[0].WashSale)
	assert.Equal(t, "0.00", report.Totals.Total().StringFixed(2))
}

func TestFilteredReportMalformedWashDates(t *testing.T) {
	_, reports := newTestServices(t)
	_, err := reports.FilteredReport(ReportRequest{WashSaleDates: "garbage"})
	assert.Error(t, err)
}

func TestAccountNumberFromFile(t *testing.T) {
	assert.Equal(t, "X12345", AccountNumberFromFile("/tmp/gain_loss_2021_x12345.csv"))
	assert.Equal(t, "REPORT", AccountNumberFromFile("report.csv"))
	assert.Equal(t, "A1", AccountNumberFromFile("2022_a1.CSV"))
}
