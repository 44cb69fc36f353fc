package tides

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spencer-p/tabua/pkg/timetricks"
)

const (
	// DefaultLocation is the port every record is reported for.
	DefaultLocation = "Porto de Cabedelo - PB"

	// HighThreshold is the height in meters from which a tide counts as high.
	HighThreshold = 1.0

	dateFormat = "2006-01-02"
)

// Category is the high/low classification of a tide record.
type Category uint

const (
	High Category = iota
	Low
)

// Classify applies the fixed HighThreshold to a height.
func Classify(height float64) Category {
	if height >= HighThreshold {
		return High
	}
	return Low
}

func (c Category) String() string {
	switch c {
	case High:
		return "ALTA"
	case Low:
		return "BAIXA"
	default:
		return "invalid"
	}
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Record is a single normalized tide event.
type Record struct {
	// Calendar date, midnight in the table's zone
	Date time.Time
	// Local time of day, zero-padded "HH:MM"
	Time string
	// Height in meters
	Height   float64
	Category Category
	// Localized weekday label, see WeekdayName
	Weekday string
	// Suggested embarkation time, "HH:MM". Empty unless Options.Embark.
	Embark   string
	Location string
}

// Timestamp combines Date and Time into a single instant.
func (r Record) Timestamp() time.Time {
	h, m, err := timetricks.ParseClock(r.Time)
	if err != nil {
		return r.Date
	}
	return timetricks.SetClock(r.Date, time.Duration(h), time.Duration(m))
}

// Day returns the calendar date as "YYYY-MM-DD".
func (r Record) Day() string {
	return r.Date.Format(dateFormat)
}

func (r Record) String() string {
	return fmt.Sprintf("{%s %s, %.2fm %s, %s}", r.Day(), r.Time, r.Height, r.Category, r.Weekday)
}

// recordJSON is the wire form of a Record.
type recordJSON struct {
	Date      string   `json:"data"`
	Time      string   `json:"hora"`
	Embark    string   `json:"embarque,omitempty"`
	Height    float64  `json:"altura"`
	Category  Category `json:"tipo"`
	Weekday   string   `json:"dia_semana"`
	Location  string   `json:"local"`
	Timestamp int64    `json:"unix_time"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Date:      r.Day(),
		Time:      r.Time,
		Embark:    r.Embark,
		Height:    r.Height,
		Category:  r.Category,
		Weekday:   r.Weekday,
		Location:  r.Location,
		Timestamp: r.Timestamp().Unix(),
	})
}
