package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/username/mytrades/src/config"
	"github.com/username/mytrades/src/services"
)

func newIngestCmd(dbPath *string) *cobra.Command {
	var file, accountNumber, accountType string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a gain/loss CSV export into the trade store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountType != "single" && accountType != "joint" {
				return fmt.Errorf("account type must be single or joint, got %q", accountType)
			}
			if accountNumber == services.GenericAccountNumber {
				accountNumber = services.AccountNumberFromFile(file)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			tradeStore, db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := services.NewIngestService(tradeStore, nil).
				Ingest(f, accountNumber, accountType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "parsed %d rows, inserted %d new trades for account %s\n",
				result.Parsed, result.Inserted, accountNumber)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "gain/loss csv export")
	cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&accountNumber, "account-number", services.GenericAccountNumber,
		"account number; 'generic' derives it from the file name")
	cmd.Flags().StringVar(&accountType, "account-type", config.Cfg.DefaultAccountType,
		"account type: single or joint")
	return cmd
}
