// Package store persists normalized transactions as trade rows and answers
// compiled predicate queries over them.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/mytrades/src/logger"
	"github.com/username/mytrades/src/models"
	"github.com/username/mytrades/src/query"
)

const sqlDateFormat = "2006-01-02"

const insertTradeSQL = `
INSERT INTO trade (
	transaction_id, cusip, symbol, account_number, equity_class, strike,
	quantity, expiration, acquired_date, sold_date, cost, proceeds, description)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`

const selectTradeSQL = `
SELECT transaction_id, cusip, symbol, account_number, equity_class, strike,
	quantity, expiration, acquired_date, sold_date, cost, proceeds, description
FROM trade`

// TradeStore is the persisted trade collection. It is a single-writer store:
// the dedup read-then-insert sequence is not safe for concurrent writers.
type TradeStore struct {
	db *sql.DB
}

func New(db *sql.DB) *TradeStore {
	return &TradeStore{db: db}
}

// InsertTransactions inserts the not-yet-stored transactions, registering new
// accounts under accountType and new symbols in the dimension tables first.
// Transactions whose id is already present are silently skipped, so
// re-ingesting the same file is idempotent. Returns the number of rows
// actually inserted.
func (s *TradeStore) InsertTransactions(transactions []models.Transaction, accountType string) (int, error) {
	existing, err := s.transactionIDs()
	if err != nil {
		return 0, err
	}
	var trades []models.Trade
	for _, tx := range transactions {
		if _, ok := existing[tx.ID]; ok {
			continue
		}
		trades = append(trades, models.TradeFromTransaction(tx))
	}
	if len(trades) == 0 {
		logger.L.Info("no new trades to insert", "candidates", len(transactions))
		return 0, nil
	}

	// Dimension reads happen before the write transaction so a single
	// connection suffices (the in-memory store runs with one).
	knownAccounts, err := stringSet(s.db, "SELECT account_number FROM account")
	if err != nil {
		return 0, err
	}
	knownSymbols, err := stringSet(s.db, "SELECT symbol FROM symbol")
	if err != nil {
		return 0, err
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertAccounts(dbTx, trades, knownAccounts, accountType); err != nil {
		return 0, err
	}
	if err := insertSymbols(dbTx, trades, knownSymbols); err != nil {
		return 0, err
	}

	stmt, err := dbTx.Prepare(insertTradeSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare trade insert: %w", err)
	}
	defer stmt.Close()

	for _, trade := range trades {
		var expiration any
		if trade.Expiration != nil {
			expiration = trade.Expiration.Format(sqlDateFormat)
		}
		_, err := stmt.Exec(
			trade.TransactionID, trade.Cusip, trade.Symbol, trade.AccountNumber,
			trade.EquityClass, trade.Strike, trade.Quantity, expiration,
			trade.AcquiredDate.Format(sqlDateFormat), trade.SoldDate.Format(sqlDateFormat),
			trade.Cost, trade.Proceeds, trade.Description)
		if err != nil {
			return 0, fmt.Errorf("failed to insert trade %s: %w", trade.TransactionID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit trade insert: %w", err)
	}
	logger.L.Info("inserted trades", "inserted", len(trades), "skipped", len(transactions)-len(trades))
	return len(trades), nil
}

func insertAccounts(dbTx *sql.Tx, trades []models.Trade, known map[string]struct{}, accountType string) error {
	for _, trade := range trades {
		if _, ok := known[trade.AccountNumber]; ok {
			continue
		}
		known[trade.AccountNumber] = struct{}{}
		_, err := dbTx.Exec(
			"INSERT INTO account (account_number, account_type) VALUES (?,?)",
			trade.AccountNumber, accountType)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", trade.AccountNumber, err)
		}
	}
	return nil
}

func insertSymbols(dbTx *sql.Tx, trades []models.Trade, known map[string]struct{}) error {
	for _, trade := range trades {
		if _, ok := known[trade.Symbol]; ok {
			continue
		}
		known[trade.Symbol] = struct{}{}
		if _, err := dbTx.Exec("INSERT INTO symbol (symbol) VALUES (?)", trade.Symbol); err != nil {
			return fmt.Errorf("failed to insert symbol %s: %w", trade.Symbol, err)
		}
	}
	return nil
}

// QueryTrades returns the persisted trades matching the predicate, ordered by
// symbol, then equity class, then sold date.
func (s *TradeStore) QueryTrades(pred query.Predicate) ([]models.Trade, error) {
	where, args := pred.SQL()
	rows, err := s.db.Query(
		selectTradeSQL+" WHERE "+where+" ORDER BY symbol, equity_class, sold_date", args...)
	if err != nil {
		return nil, fmt.Errorf("trade query failed: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trade row iteration failed: %w", err)
	}
	return trades, nil
}

// QueryTransactions is QueryTrades with each row decoded back into its
// in-memory transaction form.
func (s *TradeStore) QueryTransactions(pred query.Predicate) ([]models.Transaction, error) {
	trades, err := s.QueryTrades(pred)
	if err != nil {
		return nil, err
	}
	transactions := make([]models.Transaction, 0, len(trades))
	for _, trade := range trades {
		tx, err := trade.Transaction()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// DeleteTransaction removes one trade row. Trades are never updated in
// place; a correction is a delete followed by a fresh insert.
func (s *TradeStore) DeleteTransaction(transactionID string) error {
	_, err := s.db.Exec("DELETE FROM trade WHERE transaction_id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", transactionID, err)
	}
	return nil
}

// AccountTypes returns the account-number-to-type mapping, as needed by the
// in-memory predicate matcher.
func (s *TradeStore) AccountTypes() (map[string]string, error) {
	rows, err := s.db.Query("SELECT account_number, account_type FROM account")
	if err != nil {
		return nil, fmt.Errorf("account query failed: %w", err)
	}
	defer rows.Close()

	types := make(map[string]string)
	for rows.Next() {
		var number, typ string
		if err := rows.Scan(&number, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		types[number] = typ
	}
	return types, rows.Err()
}

// Symbols returns the known root symbols.
func (s *TradeStore) Symbols() ([]string, error) {
	rows, err := s.db.Query("SELECT symbol FROM symbol ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("symbol query failed: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol row: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (s *TradeStore) transactionIDs() (map[string]struct{}, error) {
	return stringSet(s.db, "SELECT transaction_id FROM trade")
}

func stringSet(db *sql.DB, querySQL string) (map[string]struct{}, error) {
	rows, err := db.Query(querySQL)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", querySQL, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		set[value] = struct{}{}
	}
	return set, rows.Err()
}

func scanTrade(rows *sql.Rows) (models.Trade, error) {
	var trade models.Trade
	var expiration sql.NullString
	var acquired, sold string
	err := rows.Scan(
		&trade.TransactionID, &trade.Cusip, &trade.Symbol, &trade.AccountNumber,
		&trade.EquityClass, &trade.Strike, &trade.Quantity, &expiration,
		&acquired, &sold, &trade.Cost, &trade.Proceeds, &trade.Description)
	if err != nil {
		return models.Trade{}, fmt.Errorf("failed to scan trade row: %w", err)
	}
	trade.AcquiredDate, err = time.Parse(sqlDateFormat, acquired)
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad acquired_date for trade %s: %w", trade.TransactionID, err)
	}
	trade.SoldDate, err = time.Parse(sqlDateFormat, sold)
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad sold_date for trade %s: %w", trade.TransactionID, err)
	}
	if expiration.Valid {
		exp, err := time.Parse(sqlDateFormat, expiration.String)
		if err != nil {
			return models.Trade{}, fmt.Errorf("bad expiration for trade %s: %w", trade.TransactionID, err)
		}
		trade.Expiration = &exp
	}
	return trade, nil
}
