package database

import (
	"database/sql"
	"fmt"

	"github.com/username/mytrades/src/logger"
	_ "modernc.org/sqlite"
)

// InMemory is the sqlite path for a throwaway in-memory store.
const InMemory = ":memory:"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS account_type (
	account_type TEXT NOT NULL,
	PRIMARY KEY (account_type)
);

CREATE TABLE IF NOT EXISTS account (
	account_number TEXT NOT NULL,
	account_type TEXT NOT NULL,
	PRIMARY KEY (account_number),
	FOREIGN KEY (account_type) REFERENCES account_type(account_type)
		ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE TABLE IF NOT EXISTS equity_class (
	equity_class TEXT NOT NULL,
	PRIMARY KEY (equity_class)
);

CREATE TABLE IF NOT EXISTS symbol (
	symbol TEXT NOT NULL,
	description TEXT DEFAULT '' NOT NULL,
	PRIMARY KEY (symbol)
);

CREATE TABLE IF NOT EXISTS trade (
	transaction_id TEXT NOT NULL,
	cusip TEXT NOT NULL,
	symbol TEXT NOT NULL,
	account_number TEXT NOT NULL,
	equity_class TEXT NOT NULL,
	strike INTEGER DEFAULT 0 NOT NULL,
	quantity INTEGER NOT NULL,
	expiration DATE DEFAULT NULL,
	acquired_date DATE NOT NULL,
	sold_date DATE NOT NULL,
	cost INTEGER NOT NULL,
	proceeds INTEGER NOT NULL,
	description TEXT DEFAULT '' NOT NULL,
	PRIMARY KEY (transaction_id),
	FOREIGN KEY (symbol) REFERENCES symbol(symbol)
		ON UPDATE CASCADE ON DELETE CASCADE,
	FOREIGN KEY (equity_class) REFERENCES equity_class(equity_class)
		ON UPDATE CASCADE ON DELETE CASCADE,
	FOREIGN KEY (account_number) REFERENCES account(account_number)
		ON DELETE CASCADE ON UPDATE CASCADE
);

INSERT OR IGNORE INTO equity_class (equity_class)
VALUES ('stock'), ('call'), ('put');

INSERT OR IGNORE INTO account_type (account_type)
VALUES ('single'), ('joint');
`

// Open opens (creating if necessary) the trade database at path and ensures
// the schema and its seed rows exist. Use InMemory for tests.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	if path == InMemory {
		// Every pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	logger.L.Debug("Database tables ensured/created", "databasePath", path)
	return db, nil
}
