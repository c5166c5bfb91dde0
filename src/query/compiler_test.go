package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mytrades/src/daterange"
	"github.com/username/mytrades/src/models"
)

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleTx(account, symbol, sold string) models.Transaction {
	return models.Transaction{
		AccountNumber: account,
		Instrument:    models.NewStock(symbol),
		SoldDate:      day(sold),
	}
}

func sampleOption(account, symbol, sold, expiration string) models.Transaction {
	return models.Transaction{
		AccountNumber: account,
		Instrument:    models.NewCall(symbol, decimal.NewFromInt(50), day(expiration)),
		SoldDate:      day(sold),
	}
}

func TestCompileEmptySpecMatchesEverything(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-01-01")))
	clause, args := pred.SQL()
	assert.Equal(t, "1 = 1", clause)
	assert.Empty(t, args)
}

func TestCompileAccountNumbers(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{Accounts: []string{"X1", "X2"}})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-01-01")))
	assert.True(t, pred.Match(sampleTx("X2", "aapl", "2021-01-01")))
	assert.False(t, pred.Match(sampleTx("X3", "aapl", "2021-01-01")))
}

func TestCompileAccountClass(t *testing.T) {
	types := map[string]string{"X1": "single", "X2": "joint"}
	compiler := NewCompiler(WithAccountTypes(types))

	pred, err := compiler.Compile(FilterSpec{
		Accounts:    []string{AllAccounts},
		AccountType: AccountTypeSingle,
	})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-01-01")))
	assert.False(t, pred.Match(sampleTx("X2", "aapl", "2021-01-01")))
	assert.False(t, pred.Match(sampleTx("unknown", "aapl", "2021-01-01")))
}

func TestCompileAccountTypeBothIsNoConstraint(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{AccountType: AccountTypeBoth})
	require.NoError(t, err)
	assert.True(t, pred.Match(sampleTx("anything", "aapl", "2021-01-01")))
}

func TestCompileSymbols(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{Symbols: []string{"AAPL", "msft"}})
	require.NoError(t, err)

	// Matching is on the lower-cased root symbol.
	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-01-01")))
	assert.True(t, pred.Match(sampleTx("X1", "msft", "2021-01-01")))
	assert.False(t, pred.Match(sampleTx("X1", "goog", "2021-01-01")))
}

func TestCompileSoldDateFilter(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{Dates: "210101-211231,220315"})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-06-01")))
	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2022-03-15")))
	assert.False(t, pred.Match(sampleTx("X1", "aapl", "2022-03-16")))
	assert.False(t, pred.Match(sampleTx("X1", "aapl", "2020-12-31")))
}

func TestCompileDateFilterOnExpiration(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{Dates: "210618", DateField: FieldExpiration})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleOption("X1", "xyz", "2021-05-01", "2021-06-18")))
	assert.False(t, pred.Match(sampleOption("X1", "xyz", "2021-05-01", "2021-07-16")))
	// Stocks have no expiration to match.
	assert.False(t, pred.Match(sampleTx("X1", "xyz", "2021-06-18")))
}

func TestCompileExpirationFilterSkipsStocks(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{Expirations: "210618-211231"})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleOption("X1", "xyz", "2021-05-01", "2021-06-18")))
	assert.False(t, pred.Match(sampleTx("X1", "xyz", "2021-06-18")))
}

func TestCompileCategoriesCombineWithAnd(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{
		Accounts: []string{"X1"},
		Symbols:  []string{"aapl"},
		Dates:    "210101-",
	})
	require.NoError(t, err)

	assert.True(t, pred.Match(sampleTx("X1", "aapl", "2021-06-01")))
	assert.False(t, pred.Match(sampleTx("X2", "aapl", "2021-06-01")))
	assert.False(t, pred.Match(sampleTx("X1", "msft", "2021-06-01")))
	assert.False(t, pred.Match(sampleTx("X1", "aapl", "2020-06-01")))
}

func TestCompileMalformedDateFilter(t *testing.T) {
	_, err := NewCompiler().Compile(FilterSpec{Dates: "not-a-date"})
	assert.ErrorIs(t, err, daterange.ErrMalformedDateFilter)

	_, err = NewCompiler().Compile(FilterSpec{Expirations: "21"})
	assert.ErrorIs(t, err, daterange.ErrMalformedDateFilter)
}

func TestSQLNeverInterpolatesValues(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{
		Accounts:    []string{"X1'; DROP TABLE trade;--"},
		Symbols:     []string{"aapl"},
		Dates:       "210101-211231",
		Expirations: "210618",
	})
	require.NoError(t, err)

	clause, args := pred.SQL()
	// Every literal travels as a bind argument; the clause contains only
	// placeholders, column names and operators.
	assert.NotContains(t, clause, "X1")
	assert.NotContains(t, clause, "DROP")
	assert.NotContains(t, clause, "aapl")
	assert.NotContains(t, clause, "2021")
	// account + symbol + interval bounds + expiration class + expiration date
	assert.Len(t, args, 6)
	assert.Contains(t, args, "X1'; DROP TABLE trade;--")
	assert.Contains(t, args, "2021-06-18")
}

func TestSQLAccountClassUsesSubquery(t *testing.T) {
	pred, err := NewCompiler().Compile(FilterSpec{AccountType: AccountTypeJoint})
	require.NoError(t, err)

	clause, args := pred.SQL()
	assert.Contains(t, clause, "SELECT account_number FROM account WHERE account_type = ?")
	assert.Equal(t, []any{"joint"}, args)
}

func TestSQLDateClauses(t *testing.T) {
	cases := []struct {
		filter string
		clause string
		args   []any
	}{
		{"210101-211231", "(trade.sold_date >= ? AND trade.sold_date <= ?)", []any{"2021-01-01", "2021-12-31"}},
		{"210101-", "trade.sold_date >= ?", []any{"2021-01-01"}},
		{"-211231", "trade.sold_date <= ?", []any{"2021-12-31"}},
		{"210618", "trade.sold_date = ?", []any{"2021-06-18"}},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			pred, err := NewCompiler().Compile(FilterSpec{Dates: tc.filter})
			require.NoError(t, err)
			clause, args := pred.SQL()
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestParseAccountType(t *testing.T) {
	for value, want := range map[string]AccountType{
		"single": AccountTypeSingle,
		"Joint":  AccountTypeJoint,
		"both":   AccountTypeBoth,
		"":       AccountTypeBoth,
	} {
		got, err := ParseAccountType(value)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAccountType("margin")
	assert.Error(t, err)
}
