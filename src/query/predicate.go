// Package query compiles user-supplied filter specifications into predicates
// that run either in memory over transactions or as a parameterized WHERE
// clause against the trade store. Filter values are never interpolated into
// SQL text; every literal travels as a bind argument.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/mytrades/src/daterange"
	"github.com/username/mytrades/src/models"
)

// AccountType narrows account filters to one account class.
type AccountType string

const (
	AccountTypeSingle AccountType = "single"
	AccountTypeJoint  AccountType = "joint"
	AccountTypeBoth   AccountType = "both"
)

// ParseAccountType validates an account-type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToLower(s)) {
	case AccountTypeSingle:
		return AccountTypeSingle, nil
	case AccountTypeJoint:
		return AccountTypeJoint, nil
	case AccountTypeBoth, "":
		return AccountTypeBoth, nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// AllAccounts is the sentinel account identifier matching every account of
// the requested type.
const AllAccounts = "all"

// Field selects which transaction date a date filter applies to.
type Field string

const (
	FieldSoldDate   Field = "sold_date"
	FieldExpiration Field = "expiration"
)

// sqlDateFormat matches the DATE text layout of the trade table.
const sqlDateFormat = "2006-01-02"

// Predicate is a compiled filter. Match evaluates it against an in-memory
// transaction; SQL renders it as a WHERE fragment with bind arguments.
type Predicate interface {
	Match(tx models.Transaction) bool
	SQL() (string, []any)
}

type matchAll struct{}

func (matchAll) Match(models.Transaction) bool { return true }
func (matchAll) SQL() (string, []any)          { return "1 = 1", nil }

type and []Predicate

func (p and) Match(tx models.Transaction) bool {
	for _, child := range p {
		if !child.Match(tx) {
			return false
		}
	}
	return true
}

func (p and) SQL() (string, []any) {
	clauses := make([]string, 0, len(p))
	var args []any
	for _, child := range p {
		clause, childArgs := child.SQL()
		clauses = append(clauses, "("+clause+")")
		args = append(args, childArgs...)
	}
	return strings.Join(clauses, " AND "), args
}

type accountNumbers struct {
	numbers map[string]struct{}
	order   []string
}

func (p accountNumbers) Match(tx models.Transaction) bool {
	_, ok := p.numbers[tx.AccountNumber]
	return ok
}

func (p accountNumbers) SQL() (string, []any) {
	args := make([]any, 0, len(p.order))
	for _, n := range p.order {
		args = append(args, n)
	}
	return "trade.account_number IN (" + placeholders(len(p.order)) + ")", args
}

type accountClass struct {
	typ   AccountType
	types map[string]string
}

func (p accountClass) Match(tx models.Transaction) bool {
	return p.types[tx.AccountNumber] == string(p.typ)
}

func (p accountClass) SQL() (string, []any) {
	return "trade.account_number IN (SELECT account_number FROM account WHERE account_type = ?)",
		[]any{string(p.typ)}
}

type symbols struct {
	set   map[string]struct{}
	order []string
}

func (p symbols) Match(tx models.Transaction) bool {
	_, ok := p.set[tx.Instrument.Symbol]
	return ok
}

func (p symbols) SQL() (string, []any) {
	args := make([]any, 0, len(p.order))
	for _, s := range p.order {
		args = append(args, s)
	}
	return "trade.symbol IN (" + placeholders(len(p.order)) + ")", args
}

type dateMatch struct {
	field Field
	set   *daterange.Set
}

func (p dateMatch) value(tx models.Transaction) (time.Time, bool) {
	switch p.field {
	case FieldExpiration:
		if !tx.Instrument.IsOption() {
			return time.Time{}, false
		}
		return tx.Instrument.Expiration, true
	default:
		return tx.SoldDate, true
	}
}

func (p dateMatch) Match(tx models.Transaction) bool {
	d, ok := p.value(tx)
	return ok && p.set.Match(d)
}

func (p dateMatch) SQL() (string, []any) {
	column := "trade.sold_date"
	if p.field == FieldExpiration {
		column = "trade.expiration"
	}
	var clauses []string
	var args []any
	for _, iv := range p.set.Intervals() {
		switch {
		case iv.Start != nil && iv.End != nil:
			clauses = append(clauses, "("+column+" >= ? AND "+column+" <= ?)")
			args = append(args, iv.Start.Format(sqlDateFormat), iv.End.Format(sqlDateFormat))
		case iv.Start != nil:
			clauses = append(clauses, column+" >= ?")
			args = append(args, iv.Start.Format(sqlDateFormat))
		case iv.End != nil:
			clauses = append(clauses, column+" <= ?")
			args = append(args, iv.End.Format(sqlDateFormat))
		default:
			clauses = append(clauses, "0")
		}
	}
	for _, d := range p.set.Dates() {
		clauses = append(clauses, column+" = ?")
		args = append(args, d.Format(sqlDateFormat))
	}
	if len(clauses) == 0 {
		return "0", nil
	}
	return strings.Join(clauses, " OR "), args
}

// optionExpiration restricts to option rows whose expiration matches the set.
type optionExpiration struct {
	dates dateMatch
}

func (p optionExpiration) Match(tx models.Transaction) bool {
	return tx.Instrument.IsOption() && p.dates.Match(tx)
}

func (p optionExpiration) SQL() (string, []any) {
	clause, args := p.dates.SQL()
	return "trade.equity_class <> ? AND (" + clause + ")", append([]any{models.EquityClassStock}, args...)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
