package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/username/mytrades/src/logger"
	"github.com/username/mytrades/src/models"
)

// rowDateFormat is the acquired/sold date layout in broker exports.
const rowDateFormat = "01/02/2006"

// idDateFormat is the date layout baked into transaction-id keys.
const idDateFormat = "2006-01-02"

// TransactionBuilder turns raw rows into normalized transactions. It owns the
// per-run sequence registry that disambiguates economically identical rows:
// the same key tuple seen twice yields distinct but reproducible ids. The
// registry lives for one ingestion run; reuse a builder across unrelated
// batches and ids stop matching a fresh run over the same data.
type TransactionBuilder struct {
	seq map[string]int
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{seq: make(map[string]int)}
}

// Build normalizes one raw row for the given account. A malformed symbol
// surfaces as ErrMalformedSymbol, a malformed currency field as
// ErrMalformedCurrency; both wrap the offending value.
func (b *TransactionBuilder) Build(row Row, accountNumber string) (models.Transaction, error) {
	decoded, err := DecodeSymbol(row.Symbol)
	if err != nil {
		return models.Transaction{}, err
	}

	acquired, err := time.Parse(rowDateFormat, strings.TrimSpace(row.AcquiredDate))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid acquired date %q: %w", row.AcquiredDate, err)
	}
	sold, err := time.Parse(rowDateFormat, strings.TrimSpace(row.SoldDate))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid sold date %q: %w", row.SoldDate, err)
	}
	proceeds, err := ParseCurrency(strings.TrimSpace(row.Proceeds))
	if err != nil {
		return models.Transaction{}, err
	}
	cost, err := ParseCurrency(strings.TrimSpace(row.Cost))
	if err != nil {
		return models.Transaction{}, err
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(row.Quantity))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid quantity %q: %w", row.Quantity, err)
	}

	var instrument models.Instrument
	switch decoded.OptionType {
	case 0:
		instrument = models.NewStock(decoded.Symbol)
	case 'c':
		instrument = models.NewCall(decoded.Symbol, decoded.Strike, decoded.Expiration)
	case 'p':
		instrument = models.NewPut(decoded.Symbol, decoded.Strike, decoded.Expiration)
	}

	tx := models.Transaction{
		AccountNumber: accountNumber,
		Instrument:    instrument,
		Cusip:         decoded.Cusip,
		Description:   row.Description,
		Quantity:      quantity,
		AcquiredDate:  acquired,
		SoldDate:      sold,
		Cost:          cost,
		Proceeds:      proceeds,
	}
	tx.ID = b.nextID(tx)
	return tx, nil
}

// BuildAll runs Build over every row of a source. Rows with a malformed
// symbol are logged and skipped; any other failure aborts the batch.
func (b *TransactionBuilder) BuildAll(source RowSource, accountNumber string) ([]models.Transaction, error) {
	rows, err := source.Rows()
	if err != nil {
		return nil, err
	}
	var transactions []models.Transaction
	for _, row := range rows {
		tx, err := b.Build(row, accountNumber)
		if err != nil {
			if errors.Is(err, ErrMalformedSymbol) {
				logger.L.Warn("skipping row with malformed symbol",
					"symbol", row.Symbol, "account", accountNumber)
				continue
			}
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// nextID derives the deterministic transaction id: a UUIDv3 over the identity
// tuple plus the per-key sequence number.
func (b *TransactionBuilder) nextID(tx models.Transaction) string {
	key := fmt.Sprintf("%s-%s-%s-%s-%s-%s-%s",
		tx.AccountNumber,
		tx.Cusip,
		tx.AcquiredDate.Format(idDateFormat),
		tx.SoldDate.Format(idDateFormat),
		tx.Quantity.StringFixed(2),
		tx.Cost.StringFixed(2),
		tx.Proceeds.StringFixed(2))
	b.seq[key]++
	name := fmt.Sprintf("%s-%02d", key, b.seq[key])
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(name)).String()
}
