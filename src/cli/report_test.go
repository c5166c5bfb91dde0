package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mytrades/src/query"
)

const exportCSV = `Symbol,Description,Quantity,Date Acquired,Date Sold,Proceeds,Cost
AAPL(037833100),APPLE INC,10,06/01/2020,06/20/2021,$500.00,$300.00
MSFT(594918104),MICROSOFT CORP,5,02/03/2021,02/05/2021,$250.00,$200.00
XYZ210618C120.50(92345A107),XYZ CALL,1,05/01/2021,06/01/2021,$200.00,$50.00
`

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gain_loss_2021_x12345.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o600))
	return path
}

func TestFileReport(t *testing.T) {
	report, err := fileReport(writeExport(t), query.FilterSpec{}, "", "")
	require.NoError(t, err)

	require.Len(t, report.Groups, 3)
	assert.Equal(t, "350.00", report.Totals.Total().StringFixed(2))
	assert.Equal(t, "200.00", report.Totals.LongTerm.StringFixed(2))
}

func TestFileReportWithSymbolFilter(t *testing.T) {
	report, err := fileReport(writeExport(t), query.FilterSpec{Symbols: []string{"msft"}}, "", "")
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "msft", report.Groups[0].Symbol)
	assert.Equal(t, "50.00", report.Totals.Total().StringFixed(2))
}

func TestFileReportWithWashDates(t *testing.T) {
	report, err := fileReport(writeExport(t), query.FilterSpec{}, "210615", "")
	require.NoError(t, err)

	// aapl sold 2021-06-20 and xyz sold 2021-06-01 fall inside the window.
	assert.Equal(t, "50.00", report.Totals.Total().StringFixed(2))
}

func TestPrintReportFormat(t *testing.T) {
	report, err := fileReport(writeExport(t), query.FilterSpec{}, "", "")
	require.NoError(t, err)

	var out strings.Builder
	printReport(&out, report)

	text := out.String()
	assert.Contains(t, text, "Summary:")
	assert.Contains(t, text, "Symbol: aapl")
	assert.Contains(t, text, "total gain/loss: 350.00")
}
