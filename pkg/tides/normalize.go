package tides

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spencer-p/tabua/pkg/tabua"
	"github.com/spencer-p/tabua/pkg/timetricks"
)

const (
	embarkLead = 2 * time.Hour
	embarkStep = 30 * time.Minute
)

var errMissing = errors.New("missing field")

// Year selects which year of a table to load.
type Year int

// AllYears selects every year in the table.
const AllYears Year = 0

// Bounds of a year selector. They keep arbitrary query input from growing
// the load cache and the per-year metrics.
const (
	MinYear Year = 1900
	MaxYear Year = 9999
)

// ParseYear reads a year selector, either "all" (or empty) or a year number.
func ParseYear(s string) (Year, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllYears, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return AllYears, fmt.Errorf("year %q is neither a year nor \"all\"", s)
	}
	if Year(y) < MinYear || Year(y) > MaxYear {
		return AllYears, fmt.Errorf("year %d outside %d-%d", y, MinYear, MaxYear)
	}
	return Year(y), nil
}

func (y Year) String() string {
	if y == AllYears {
		return "all"
	}
	return strconv.Itoa(int(y))
}

// Options tune how a table is normalized.
type Options struct {
	// Location is the port name stamped on each record. Defaults to
	// DefaultLocation.
	Location string
	// Zone is the time zone of the table's wall clock. Defaults to UTC.
	Zone *time.Location
	// Embark enables the embarkation time of each record.
	Embark bool
}

func (o Options) withDefaults() Options {
	if o.Location == "" {
		o.Location = DefaultLocation
	}
	if o.Zone == nil {
		o.Zone = time.UTC
	}
	return o
}

// Normalize validates a raw tide table and turns it into records sorted by
// timestamp. Days and events that cannot be read are skipped and reported in
// the Batch; they never fail the table as a whole.
func Normalize(days []tabua.Day, year Year, opts Options) Batch {
	opts = opts.withDefaults()
	batch := Batch{Records: []Record{}}

	for di, day := range days {
		dayYear, err := day.Year.Int()
		if err == nil && year != AllYears && Year(dayYear) != year {
			continue
		}
		if day.Err != nil {
			err = day.Err
		}
		if err != nil {
			batch.skipDay(di, day, err)
			continue
		}
		date, err := timetricks.ParseDayMonth(dayYear, day.DayMonth, opts.Zone)
		if err != nil {
			batch.skipDay(di, day, err)
			continue
		}

		for ei, event := range day.Tides {
			rec, reason, err := normalizeEvent(date, event, opts)
			if err != nil {
				batch.Skipped = append(batch.Skipped, Skip{
					Day:      di,
					Event:    ei,
					DayMonth: day.DayMonth,
					Reason:   reason,
					Err:      err,
				})
				continue
			}
			batch.Records = append(batch.Records, rec)
		}
	}

	sort.SliceStable(batch.Records, func(i, j int) bool {
		return batch.Records[i].Timestamp().Before(batch.Records[j].Timestamp())
	})
	return batch
}

func normalizeEvent(date time.Time, event tabua.Event, opts Options) (Record, Reason, error) {
	if event.Err != nil {
		return Record{}, MissingField, event.Err
	}
	if strings.TrimSpace(event.Time) == "" {
		return Record{}, MissingField, fmt.Errorf("hora: %w", errMissing)
	}
	if event.Height == nil {
		return Record{}, MissingField, fmt.Errorf("altura_m: %w", errMissing)
	}
	clock, err := timetricks.NormalizeClock(event.Time)
	if err != nil {
		return Record{}, MalformedTime, err
	}
	height, err := event.Height.Float64()
	if err != nil {
		return Record{}, MalformedHeight, err
	}

	rec := Record{
		Date:     date,
		Time:     clock,
		Height:   height,
		Category: Classify(height),
		Weekday:  WeekdayName(date),
		Location: opts.Location,
	}
	if opts.Embark {
		rec.Embark = EmbarkTime(rec.Timestamp())
	}
	return rec, 0, nil
}

// EmbarkTime is two hours before t, rounded to the nearest half hour.
func EmbarkTime(t time.Time) string {
	return timetricks.Clock(timetricks.RoundClock(t.Add(-embarkLead), embarkStep))
}
