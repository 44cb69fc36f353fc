package tabua

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Day holds one calendar day of a tide table as it appears in the source.
// Decoding a Day never fails: an entry of the wrong shape keeps whatever
// fields could be read and reports the rest in Err.
type Day struct {
	Year     Number  `json:"ano"`
	DayMonth string  `json:"dia"`
	Tides    []Event `json:"marés"`
	// Err is set when the entry, or its list of tides, could not be read
	Err error `json:"-"`
}

// Event is a single tide event of a Day. Like Day, decoding never fails.
type Event struct {
	// Local time of the event, "HH:MM"
	Time string `json:"hora"`
	// Height in meters, nil when absent or null
	Height *Number `json:"altura_m"`
	// Err is set when the entry is not an object
	Err error `json:"-"`
}

// Verify the custom types can be unmarshaled
var (
	_ json.Unmarshaler = new(Number)
	_ json.Unmarshaler = new(text)
	_ json.Unmarshaler = new(Day)
	_ json.Unmarshaler = new(Event)
)

func (d *Day) UnmarshalJSON(buf []byte) error {
	var wire struct {
		Year     Number          `json:"ano"`
		DayMonth text            `json:"dia"`
		Tides    json.RawMessage `json:"marés"`
	}
	*d = Day{}
	if err := json.Unmarshal(buf, &wire); err != nil {
		d.Err = fmt.Errorf("day %s: %w", excerpt(buf), err)
		return nil
	}
	d.Year = wire.Year
	d.DayMonth = string(wire.DayMonth)
	if len(wire.Tides) > 0 {
		if err := json.Unmarshal(wire.Tides, &d.Tides); err != nil {
			d.Err = fmt.Errorf("marés %s: %w", excerpt(wire.Tides), err)
		}
	}
	return nil
}

func (e *Event) UnmarshalJSON(buf []byte) error {
	var wire struct {
		Time   text    `json:"hora"`
		Height *Number `json:"altura_m"`
	}
	*e = Event{}
	if err := json.Unmarshal(buf, &wire); err != nil {
		e.Err = fmt.Errorf("event %s: %w", excerpt(buf), err)
		return nil
	}
	e.Time = string(wire.Time)
	e.Height = wire.Height
	return nil
}

// text is a string that also accepts other JSON values, keeping their
// literal text, so a mistyped field fails later validation instead of
// decoding.
type text string

func (t *text) UnmarshalJSON(buf []byte) error {
	buf = bytes.TrimSpace(buf)
	switch {
	case bytes.Equal(buf, []byte("null")):
		*t = ""
	case len(buf) > 0 && buf[0] == '"':
		var s string
		if err := json.Unmarshal(buf, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(buf)
	}
	return nil
}

// excerpt shortens raw JSON for error messages.
func excerpt(buf []byte) string {
	const limit = 40
	if len(buf) > limit {
		return string(buf[:limit]) + "..."
	}
	return string(buf)
}

// Number is a numeric value that may be written either as a JSON number or
// as a string holding a number. It keeps the literal text so that a bad value
// spoils only the event or day it belongs to, not the whole table.
type Number string

func (n *Number) UnmarshalJSON(buf []byte) error {
	buf = bytes.TrimSpace(buf)
	if len(buf) > 0 && buf[0] == '"' {
		var s string
		if err := json.Unmarshal(buf, &s); err != nil {
			return fmt.Errorf("number %s not a string: %w", buf, err)
		}
		*n = Number(s)
		return nil
	}
	*n = Number(buf)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// Float64 parses the number. NaN and infinities are rejected.
func (n Number) Float64() (float64, error) {
	s := strings.TrimSpace(string(n))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q not a float: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %q not finite", s)
	}
	return f, nil
}

// Int parses the number as an integer.
func (n Number) Int() (int, error) {
	s := strings.TrimSpace(string(n))
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("value %q not an integer: %w", s, err)
	}
	return i, nil
}

func (d Day) String() string {
	return fmt.Sprintf("{ano: %s, dia: %s, marés: %d}", string(d.Year), d.DayMonth, len(d.Tides))
}
