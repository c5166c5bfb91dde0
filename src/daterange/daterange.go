// Package daterange implements membership tests over mixed sets of exact
// dates and intervals with optionally open bounds. The same machinery backs
// wash-sale windows and user-supplied date filters.
package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedDateFilter reports a filter token outside the
// YYMMDD[-[YYMMDD]] grammar.
var ErrMalformedDateFilter = errors.New("malformed date filter")

// filterDateFormat is the six-digit date layout of filter tokens.
const filterDateFormat = "060102"

// Interval is an inclusive date interval; a nil bound is open. An interval
// with both bounds absent never matches.
type Interval struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether d falls inside the interval.
func (iv Interval) Contains(d time.Time) bool {
	if iv.Start == nil && iv.End == nil {
		return false
	}
	d = midnight(d)
	if iv.Start != nil && d.Before(midnight(*iv.Start)) {
		return false
	}
	if iv.End != nil && d.After(midnight(*iv.End)) {
		return false
	}
	return true
}

// Set holds exact dates and intervals. A date matches the set when it equals
// any exact entry or falls inside any interval.
type Set struct {
	dates     map[time.Time]struct{}
	order     []time.Time
	intervals []Interval
}

func NewSet() *Set {
	return &Set{dates: make(map[time.Time]struct{})}
}

// AddDate adds an exact-date entry.
func (s *Set) AddDate(d time.Time) {
	d = midnight(d)
	if _, ok := s.dates[d]; !ok {
		s.dates[d] = struct{}{}
		s.order = append(s.order, d)
	}
}

// AddInterval adds an interval entry; either bound may be nil for open.
func (s *Set) AddInterval(start, end *time.Time) {
	s.intervals = append(s.intervals, Interval{Start: start, End: end})
}

// Match reports whether d matches any exact date or interval in the set.
func (s *Set) Match(d time.Time) bool {
	return s.MatchExact(d) || s.MatchInterval(d)
}

// MatchExact reports whether d equals one of the exact-date entries.
func (s *Set) MatchExact(d time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.dates[midnight(d)]
	return ok
}

// MatchInterval reports whether d falls inside any interval entry.
func (s *Set) MatchInterval(d time.Time) bool {
	if s == nil {
		return false
	}
	for _, iv := range s.intervals {
		if iv.Contains(d) {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no entries at all.
func (s *Set) Empty() bool {
	return s == nil || (len(s.dates) == 0 && len(s.intervals) == 0)
}

// Dates returns the exact-date entries in insertion order.
func (s *Set) Dates() []time.Time {
	if s == nil {
		return nil
	}
	return s.order
}

// Intervals returns the interval entries.
func (s *Set) Intervals() []Interval {
	if s == nil {
		return nil
	}
	return s.intervals
}

// Parse builds a Set from a comma-separated filter string. Each token is
// either an exact date "YYMMDD" or a range "YYMMDD-YYMMDD" with either side
// omissible: "YYMMDD-" is open-ended after, "-YYMMDD" open-ended before. An
// unparseable token fails the whole filter; no partial set is returned.
func Parse(filter string) (*Set, error) {
	set := NewSet()
	for _, token := range strings.Split(filter, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if err := parseToken(set, token); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func parseToken(set *Set, token string) error {
	dash := strings.Index(token, "-")
	if dash < 0 {
		d, err := time.Parse(filterDateFormat, token)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedDateFilter, token)
		}
		set.AddDate(d)
		return nil
	}
	var start, end *time.Time
	if before := token[:dash]; before != "" {
		d, err := time.Parse(filterDateFormat, before)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedDateFilter, token)
		}
		start = &d
	}
	if after := token[dash+1:]; after != "" {
		d, err := time.Parse(filterDateFormat, after)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedDateFilter, token)
		}
		end = &d
	}
	set.AddInterval(start, end)
	return nil
}

// ParseDates parses a comma-separated list of exact YYMMDD dates, as used
// for wash-sale reference dates. Ranges are not allowed here.
func ParseDates(list string) ([]time.Time, error) {
	var dates []time.Time
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		d, err := time.Parse(filterDateFormat, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedDateFilter, token)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// WashSaleWindows builds a set of inclusive ±days intervals around each
// reference date. With days=30 this is the wash-sale window.
func WashSaleWindows(refs []time.Time, days int) *Set {
	set := NewSet()
	for _, ref := range refs {
		start := midnight(ref).AddDate(0, 0, -days)
		end := midnight(ref).AddDate(0, 0, days)
		set.AddInterval(&start, &end)
	}
	return set
}

func midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
