// Package cli defines the mytrades sub-commands. Argument parsing and report
// text formatting live here; all transaction semantics stay in the library
// packages.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/username/mytrades/src/config"
	"github.com/username/mytrades/src/database"
	"github.com/username/mytrades/src/store"
)

// Execute runs the root command. Config and logger must be initialized first.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string
	root := &cobra.Command{
		Use:           "mytrades",
		Short:         "Normalize brokerage gain/loss exports for tax reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", config.Cfg.DatabasePath, "trade database file")
	root.AddCommand(newIngestCmd(&dbPath), newReportCmd(&dbPath), newQueryCmd(&dbPath))
	return root
}

func openStore(dbPath string) (*store.TradeStore, *sql.DB, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store.New(db), db, nil
}
