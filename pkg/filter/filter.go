// Package filter narrows normalized tide records down to the ones a user asked
// for. Every bound is inclusive and every predicate must hold; bounds left
// unset do not restrict anything.
package filter

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spencer-p/tabua/pkg/tides"
	"github.com/spencer-p/tabua/pkg/timetricks"
)

// Predicate is an extra condition a record has to meet.
type Predicate func(tides.Record) bool

// Criteria holds the bounds of a single filtering request.
type Criteria struct {
	// Inclusive calendar bounds; the zero time is unset.
	DateFrom, DateTo time.Time
	// Inclusive height bounds in meters; nil is unset.
	HeightMin, HeightMax *float64
	// Inclusive time of day bounds as "HH:MM"; empty is unset.
	TimeFrom, TimeTo string
	// Weekday labels to keep, see tides.Weekdays. Empty keeps all.
	Weekdays []string
	// Match holds additional predicates, all of which must hold.
	Match []Predicate
}

// Apply returns the records that meet every bound of c, in their original
// order. The input is not modified.
func Apply(records []tides.Record, c Criteria) []tides.Record {
	keep := c.compile()
	result := []tides.Record{}
	for _, rec := range records {
		if keep(rec) {
			result = append(result, rec)
		}
	}
	return result
}

// Matches reports whether a single record meets every bound of c.
func (c Criteria) Matches(rec tides.Record) bool {
	return c.compile()(rec)
}

func (c Criteria) compile() Predicate {
	var preds []Predicate

	if !c.DateFrom.IsZero() {
		from := timetricks.UniqueDay(c.DateFrom)
		preds = append(preds, func(r tides.Record) bool {
			return timetricks.UniqueDay(r.Date) >= from
		})
	}
	if !c.DateTo.IsZero() {
		to := timetricks.UniqueDay(c.DateTo)
		preds = append(preds, func(r tides.Record) bool {
			return timetricks.UniqueDay(r.Date) <= to
		})
	}
	if c.HeightMin != nil {
		lo := *c.HeightMin
		preds = append(preds, func(r tides.Record) bool { return r.Height >= lo })
	}
	if c.HeightMax != nil {
		hi := *c.HeightMax
		preds = append(preds, func(r tides.Record) bool { return r.Height <= hi })
	}
	// Zero-padded 24h clocks sort lexically in chronological order.
	if c.TimeFrom != "" {
		from := c.TimeFrom
		preds = append(preds, func(r tides.Record) bool { return r.Time >= from })
	}
	if c.TimeTo != "" {
		to := c.TimeTo
		preds = append(preds, func(r tides.Record) bool { return r.Time <= to })
	}
	if len(c.Weekdays) > 0 {
		set := make(map[string]bool, len(c.Weekdays))
		for _, w := range c.Weekdays {
			set[w] = true
		}
		preds = append(preds, func(r tides.Record) bool { return set[r.Weekday] })
	}
	preds = append(preds, c.Match...)

	return func(r tides.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Years lists the distinct years of the records in ascending order.
func Years(records []tides.Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if y := r.Date.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// ExportLabel names a result set by the years it spans, e.g. "2026" or
// "2025-2026". There is no label for an empty result.
func ExportLabel(records []tides.Record) (string, bool) {
	years := Years(records)
	if len(years) == 0 {
		return "", false
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, "-"), true
}

// During keeps records whose timestamp satisfies in, such as a daylight
// check.
func During(in func(time.Time) bool) Predicate {
	return func(r tides.Record) bool {
		return in(r.Timestamp())
	}
}
