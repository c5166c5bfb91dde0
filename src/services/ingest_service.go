package services

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/username/mytrades/src/logger"
	"github.com/username/mytrades/src/parsers"
	"github.com/username/mytrades/src/store"
)

// GenericAccountNumber asks the ingester to derive the account number from
// the file name instead of taking it literally.
const GenericAccountNumber = "generic"

// IngestService loads gain/loss exports into the trade store.
type IngestService struct {
	store       *store.TradeStore
	reportCache *cache.Cache
}

func NewIngestService(tradeStore *store.TradeStore, reportCache *cache.Cache) *IngestService {
	return &IngestService{store: tradeStore, reportCache: reportCache}
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Parsed   int
	Inserted int
}

// Ingest parses one export and inserts the resulting transactions,
// deduplicating against already stored ids. Each call is one ingestion run
// and gets a fresh transaction builder, so id sequence numbers restart and
// re-ingesting the same file maps onto the same ids.
func (s *IngestService) Ingest(r io.Reader, accountNumber, accountType string) (IngestResult, error) {
	builder := parsers.NewTransactionBuilder()
	transactions, err := builder.BuildAll(parsers.NewCSVSource(r), accountNumber)
	if err != nil {
		return IngestResult{}, err
	}
	inserted, err := s.store.InsertTransactions(transactions, accountType)
	if err != nil {
		return IngestResult{}, err
	}
	if inserted > 0 && s.reportCache != nil {
		// Stored data changed; cached reports are stale.
		s.reportCache.Flush()
	}
	logger.L.Info("ingestion run finished",
		"account", accountNumber, "parsed", len(transactions), "inserted", inserted)
	return IngestResult{Parsed: len(transactions), Inserted: inserted}, nil
}

// AccountNumberFromFile derives an account number from an export file name:
// the last underscore-separated token of the stem, upper-cased. Brokerage
// exports conventionally end in the account number, e.g.
// "gain_loss_2021_X12345.csv" -> "X12345".
func AccountNumberFromFile(path string) string {
	stem := strings.ToLower(filepath.Base(path))
	stem = strings.TrimSuffix(stem, ".csv")
	parts := strings.Split(stem, "_")
	return strings.ToUpper(parts[len(parts)-1])
}
