package tides

import (
	"fmt"

	"github.com/spencer-p/tabua/pkg/tabua"
)

// Reason explains why part of a table was skipped.
type Reason uint

const (
	// MalformedDay means the year or "DD/MM" of a day could not be read.
	MalformedDay Reason = iota + 1
	// MissingField means an event had no time or no height.
	MissingField
	// MalformedTime means an event time was not "HH:MM".
	MalformedTime
	// MalformedHeight means an event height was not a number.
	MalformedHeight
)

func (r Reason) String() string {
	switch r {
	case MalformedDay:
		return "malformed_day"
	case MissingField:
		return "missing_field"
	case MalformedTime:
		return "malformed_time"
	case MalformedHeight:
		return "malformed_height"
	default:
		return "unknown"
	}
}

// Skip records a day or event that was left out of a Batch.
type Skip struct {
	// Index of the day in the source table
	Day int
	// Index of the event within the day, -1 when the whole day was skipped
	Event    int
	DayMonth string
	Reason   Reason
	Err      error
}

func (s Skip) String() string {
	if s.Event < 0 {
		return fmt.Sprintf("day %d (%q) skipped: %s: %v", s.Day, s.DayMonth, s.Reason, s.Err)
	}
	return fmt.Sprintf("day %d (%q) event %d skipped: %s: %v", s.Day, s.DayMonth, s.Event, s.Reason, s.Err)
}

// Batch is the outcome of normalizing a table.
type Batch struct {
	Records []Record
	Skipped []Skip
}

func (b *Batch) skipDay(index int, day tabua.Day, err error) {
	b.Skipped = append(b.Skipped, Skip{
		Day:      index,
		Event:    -1,
		DayMonth: day.DayMonth,
		Reason:   MalformedDay,
		Err:      err,
	})
}

// SkipCounts tallies skips by reason.
func (b Batch) SkipCounts() map[Reason]int {
	counts := make(map[Reason]int)
	for _, s := range b.Skipped {
		counts[s.Reason]++
	}
	return counts
}
