package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/mytrades/src/daterange"
	"github.com/username/mytrades/src/logger"
	"github.com/username/mytrades/src/models"
	"github.com/username/mytrades/src/processors"
	"github.com/username/mytrades/src/query"
	"github.com/username/mytrades/src/store"
)

const (
	// Cache key for fully computed filtered reports.
	ckFilteredReport = "report_filtered_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// NewReportCache builds the shared report result cache.
func NewReportCache(expiration time.Duration) *cache.Cache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return cache.New(expiration, CacheCleanupInterval)
}

// ReportRequest describes one report over the persisted store.
type ReportRequest struct {
	Filter query.FilterSpec
	// WashSaleDates is a comma-separated YYMMDD list of reference dates;
	// transactions acquired or sold within ±30 days of any of them are
	// flagged.
	WashSaleDates string
	// WashSaleExpirations is a date filter whose exact entries flag options
	// expiring on those dates.
	WashSaleExpirations string
}

// ReportService runs compiled queries against the store, applies wash-sale
// flagging and aggregates the result. Computed reports are cached on the
// request fingerprint until the next ingestion flushes the cache.
type ReportService struct {
	store       *store.TradeStore
	reportCache *cache.Cache
}

func NewReportService(tradeStore *store.TradeStore, reportCache *cache.Cache) *ReportService {
	return &ReportService{store: tradeStore, reportCache: reportCache}
}

// FilteredReport queries the store with the request's filter and returns the
// aggregated per-symbol report.
func (s *ReportService) FilteredReport(req ReportRequest) (processors.Report, error) {
	key := fmt.Sprintf(ckFilteredReport, fingerprint(req))
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(key); found {
			logger.L.Debug("report cache hit", "key", key)
			return cached.(processors.Report), nil
		}
	}

	transactions, err := s.QueryTransactions(req.Filter)
	if err != nil {
		return processors.Report{}, err
	}
	transactions, err = s.flagWashSales(transactions, req)
	if err != nil {
		return processors.Report{}, err
	}
	report := processors.Aggregate(transactions)

	if s.reportCache != nil {
		s.reportCache.Set(key, report, cache.DefaultExpiration)
	}
	return report, nil
}

// QueryTransactions compiles the filter and returns the matching stored
// transactions without aggregation.
func (s *ReportService) QueryTransactions(spec query.FilterSpec) ([]models.Transaction, error) {
	accountTypes, err := s.store.AccountTypes()
	if err != nil {
		return nil, err
	}
	compiler := query.NewCompiler(query.WithAccountTypes(accountTypes))
	pred, err := compiler.Compile(spec)
	if err != nil {
		return nil, err
	}
	return s.store.QueryTransactions(pred)
}

func (s *ReportService) flagWashSales(transactions []models.Transaction, req ReportRequest) ([]models.Transaction, error) {
	if req.WashSaleDates == "" && req.WashSaleExpirations == "" {
		return transactions, nil
	}
	refs, err := daterange.ParseDates(req.WashSaleDates)
	if err != nil {
		return nil, err
	}
	var expirations *daterange.Set
	if req.WashSaleExpirations != "" {
		expirations, err = daterange.Parse(req.WashSaleExpirations)
		if err != nil {
			return nil, err
		}
	}
	return processors.FlagWashSales(transactions, refs, expirations), nil
}

func fingerprint(req ReportRequest) string {
	return strings.Join([]string{
		strings.Join(req.Filter.Accounts, ","),
		string(req.Filter.AccountType),
		strings.Join(req.Filter.Symbols, ","),
		req.Filter.Dates,
		string(req.Filter.DateField),
		req.Filter.Expirations,
		req.WashSaleDates,
		req.WashSaleExpirations,
	}, "|")
}
