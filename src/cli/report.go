package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/username/mytrades/src/config"
	"github.com/username/mytrades/src/daterange"
	"github.com/username/mytrades/src/parsers"
	"github.com/username/mytrades/src/processors"
	"github.com/username/mytrades/src/query"
	"github.com/username/mytrades/src/services"
)

func newReportCmd(dbPath *string) *cobra.Command {
	var file string
	var accounts, symbols []string
	var accountType, dates, expirations, washDates, washExpirations string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Per-symbol and overall gain/loss report",
		Long: `Report computes the short/long-term gain split per symbol and overall.
It reads either straight from a CSV export (-f) or from the trade store.
Wash-sale-flagged transactions are listed but excluded from realized totals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := query.ParseAccountType(accountType)
			if err != nil {
				return err
			}
			spec := query.FilterSpec{
				Accounts:    accounts,
				AccountType: typ,
				Symbols:     symbols,
				Dates:       dates,
				Expirations: expirations,
			}

			if file != "" {
				report, err := fileReport(file, spec, washDates, washExpirations)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			}

			tradeStore, db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewReportService(tradeStore,
				services.NewReportCache(config.Cfg.ReportCacheExpiry))
			report, err := svc.FilteredReport(services.ReportRequest{
				Filter:              spec,
				WashSaleDates:       washDates,
				WashSaleExpirations: washExpirations,
			})
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "report straight from a csv export instead of the store")
	cmd.Flags().StringSliceVar(&accounts, "accounts", nil, "account numbers, or 'all'")
	cmd.Flags().StringVar(&accountType, "account-type", "both", "account type: single, joint or both")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "root symbols to include")
	cmd.Flags().StringVar(&dates, "dates", "", "sold-date filter, e.g. 210101-211231,220315")
	cmd.Flags().StringVar(&expirations, "expirations", "", "option expiration filter, same grammar")
	cmd.Flags().StringVar(&washDates, "wash-dates", "", "wash-sale reference dates (YYMMDD list)")
	cmd.Flags().StringVar(&washExpirations, "wash-expirations", "", "flag options expiring on these dates")
	return cmd
}

// fileReport is the store-less path: parse, filter in memory, aggregate. The
// account-type category cannot be resolved without the store and is ignored
// here; account numbers still filter.
func fileReport(file string, spec query.FilterSpec, washDates, washExpirations string) (processors.Report, error) {
	f, err := os.Open(file)
	if err != nil {
		return processors.Report{}, err
	}
	defer f.Close()

	builder := parsers.NewTransactionBuilder()
	transactions, err := builder.BuildAll(parsers.NewCSVSource(f), services.AccountNumberFromFile(file))
	if err != nil {
		return processors.Report{}, err
	}

	spec.AccountType = query.AccountTypeBoth
	pred, err := query.NewCompiler().Compile(spec)
	if err != nil {
		return processors.Report{}, err
	}
	filtered := transactions[:0:0]
	for _, tx := range transactions {
		if pred.Match(tx) {
			filtered = append(filtered, tx)
		}
	}

	if washDates != "" || washExpirations != "" {
		refs, err := daterange.ParseDates(washDates)
		if err != nil {
			return processors.Report{}, err
		}
		var expirationSet *daterange.Set
		if washExpirations != "" {
			expirationSet, err = daterange.Parse(washExpirations)
			if err != nil {
				return processors.Report{}, err
			}
		}
		filtered = processors.FlagWashSales(filtered, refs, expirationSet)
	}
	return processors.Aggregate(filtered), nil
}
