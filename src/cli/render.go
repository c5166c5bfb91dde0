package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/username/mytrades/src/models"
	"github.com/username/mytrades/src/processors"
)

const displayDateFormat = "2006-01-02"

func printReport(w io.Writer, report processors.Report) {
	for _, group := range report.Groups {
		fmt.Fprintf(w, "              Symbol: %s\n", group.Symbol)
		fmt.Fprintf(w, "short term gain/loss: %s\n", group.Gains.ShortTerm.StringFixed(2))
		fmt.Fprintf(w, " long term gain/loss: %s\n", group.Gains.LongTerm.StringFixed(2))
		fmt.Fprintf(w, "     total gain/loss: %s\n", group.Gains.Total().StringFixed(2))
		fmt.Fprintln(w, strings.Repeat("-", 40))
	}
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "short term gain/loss: %s\n", report.Totals.ShortTerm.StringFixed(2))
	fmt.Fprintf(w, " long term gain/loss: %s\n", report.Totals.LongTerm.StringFixed(2))
	fmt.Fprintf(w, "     total gain/loss: %s\n", report.Totals.Total().StringFixed(2))
}

func printTransactions(w io.Writer, transactions []models.Transaction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tSYMBOL\tCLASS\tQTY\tACQUIRED\tSOLD\tCOST\tPROCEEDS\tGAIN\tWASH")
	for _, tx := range transactions {
		wash := ""
		if tx.WashSale {
			wash = "W"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.AccountNumber,
			tx.Instrument.Symbol,
			tx.Instrument.Kind,
			tx.Quantity.String(),
			tx.AcquiredDate.Format(displayDateFormat),
			tx.SoldDate.Format(displayDateFormat),
			tx.Cost.StringFixed(2),
			tx.Proceeds.StringFixed(2),
			tx.Gain().StringFixed(2),
			wash)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d trades\n", len(transactions))
}
