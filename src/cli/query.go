package cli

import (
	"github.com/spf13/cobra"

	"github.com/username/mytrades/src/query"
	"github.com/username/mytrades/src/services"
)

func newQueryCmd(dbPath *string) *cobra.Command {
	var accounts, symbols []string
	var accountType, sold, expirations string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List stored trades matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := query.ParseAccountType(accountType)
			if err != nil {
				return err
			}

			tradeStore, db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewReportService(tradeStore, nil)
			transactions, err := svc.QueryTransactions(query.FilterSpec{
				Accounts:    accounts,
				AccountType: typ,
				Symbols:     symbols,
				Dates:       sold,
				DateField:   query.FieldSoldDate,
				Expirations: expirations,
			})
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), transactions)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&accounts, "accounts", nil, "account numbers, or 'all'")
	cmd.Flags().StringVar(&accountType, "account-type", "both", "account type: single, joint or both")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "root symbols to include")
	cmd.Flags().StringVar(&sold, "sold", "", "sold-date filter, e.g. 210101-211231,220315")
	cmd.Flags().StringVar(&expirations, "expiration", "", "option expiration filter, same grammar")
	return cmd
}
