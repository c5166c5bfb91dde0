package query

import (
	"strings"

	"github.com/username/mytrades/src/daterange"
)

// FilterSpec is the caller-facing filter description. Every category is
// optional; absent categories impose no constraint. Categories combine with
// AND, alternatives inside a category with OR.
type FilterSpec struct {
	// Accounts is a set of account identifiers, or the AllAccounts sentinel
	// to match every account of AccountType.
	Accounts    []string
	AccountType AccountType
	// Symbols are root symbols; matching is on the lower-cased form.
	Symbols []string
	// Dates is a filter in the YYMMDD[-[YYMMDD]] comma-list grammar, applied
	// to DateField (sold date when unset).
	Dates     string
	DateField Field
	// Expirations uses the same grammar and matches option rows only.
	Expirations string
}

// Compiler compiles filter specifications into predicates. The account-type
// map (account number to type) only matters for in-memory matching of
// account-class filters; the SQL rendering resolves types in the store.
type Compiler struct {
	accountTypes map[string]string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithAccountTypes injects the account-number-to-type mapping used by
// in-memory account-class matching.
func WithAccountTypes(types map[string]string) Option {
	return func(c *Compiler) { c.accountTypes = types }
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{accountTypes: map[string]string{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds a predicate from the spec. A malformed date or expiration
// filter surfaces as daterange.ErrMalformedDateFilter and no predicate is
// returned.
func (c *Compiler) Compile(spec FilterSpec) (Predicate, error) {
	var predicates []Predicate

	if p := c.compileAccounts(spec); p != nil {
		predicates = append(predicates, p)
	}
	if p := compileSymbols(spec.Symbols); p != nil {
		predicates = append(predicates, p)
	}
	if spec.Dates != "" {
		set, err := daterange.Parse(spec.Dates)
		if err != nil {
			return nil, err
		}
		if !set.Empty() {
			field := spec.DateField
			if field == "" {
				field = FieldSoldDate
			}
			predicates = append(predicates, dateMatch{field: field, set: set})
		}
	}
	if spec.Expirations != "" {
		set, err := daterange.Parse(spec.Expirations)
		if err != nil {
			return nil, err
		}
		if !set.Empty() {
			predicates = append(predicates, optionExpiration{
				dates: dateMatch{field: FieldExpiration, set: set},
			})
		}
	}

	switch len(predicates) {
	case 0:
		return matchAll{}, nil
	case 1:
		return predicates[0], nil
	}
	return and(predicates), nil
}

func (c *Compiler) compileAccounts(spec FilterSpec) Predicate {
	numbers := accountNumbers{numbers: map[string]struct{}{}}
	all := false
	for _, a := range spec.Accounts {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if strings.EqualFold(a, AllAccounts) {
			all = true
			continue
		}
		if _, ok := numbers.numbers[a]; !ok {
			numbers.numbers[a] = struct{}{}
			numbers.order = append(numbers.order, a)
		}
	}
	if len(numbers.order) > 0 {
		return numbers
	}
	if all || len(spec.Accounts) == 0 {
		if spec.AccountType == "" || spec.AccountType == AccountTypeBoth {
			return nil
		}
		return accountClass{typ: spec.AccountType, types: c.accountTypes}
	}
	return nil
}

func compileSymbols(values []string) Predicate {
	p := symbols{set: map[string]struct{}{}}
	for _, s := range values {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := p.set[s]; !ok {
			p.set[s] = struct{}{}
			p.order = append(p.order, s)
		}
	}
	if len(p.order) == 0 {
		// Empty symbol set matches everything.
		return nil
	}
	return p
}
