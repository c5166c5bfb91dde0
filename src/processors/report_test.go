package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mytrades/src/models"
)

func TestAggregate(t *testing.T) {
	washed := stockTx("aapl", "2021-01-04", "2021-03-01", -20)
	washed.WashSale = true
	transactions := []models.Transaction{
		stockTx("aapl", "2020-01-01", "2021-06-01", 100),
		washed,
		stockTx("msft", "2021-01-04", "2021-03-01", 50),
	}

	report := Aggregate(transactions)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, "aapl", report.Groups[0].Symbol)
	assert.Equal(t, "msft", report.Groups[1].Symbol)

	// The washed loss is listed but excluded from the totals.
	assert.Len(t, report.Groups[0].Transactions, 2)
	assert.Equal(t, "100.00", report.Groups[0].Gains.Total().StringFixed(2))
	assert.Equal(t, "50.00", report.Groups[1].Gains.Total().StringFixed(2))
	assert.Equal(t, "150.00", report.Totals.Total().StringFixed(2))
}

func TestAggregateGroupOrderIsFirstSeen(t *testing.T) {
	transactions := []models.Transaction{
		stockTx("msft", "2021-01-04", "2021-03-01", 10),
		stockTx("aapl", "2021-01-04", "2021-03-01", 10),
		stockTx("msft", "2021-02-04", "2021-04-01", 10),
	}
	report := Aggregate(transactions)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, "msft", report.Groups[0].Symbol)
	assert.Equal(t, "aapl", report.Groups[1].Symbol)
	assert.Len(t, report.Groups[0].Transactions, 2)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	assert.Empty(t, report.Groups)
	assert.Equal(t, "0.00", report.Totals.Total().StringFixed(2))
}

func TestAggregateSplitsTerms(t *testing.T) {
	transactions := []models.Transaction{
		stockTx("aapl", "2019-01-01", "2021-06-01", 100),               // long-term
		optionTx("aapl", "2021-05-01", "2021-06-01", "2021-06-18", 30), // short-term
	}
	report := Aggregate(transactions)

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "100.00", report.Groups[0].Gains.LongTerm.StringFixed(2))
	assert.Equal(t, "30.00", report.Groups[0].Gains.ShortTerm.StringFixed(2))
}
