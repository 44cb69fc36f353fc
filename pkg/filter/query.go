package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spencer-p/tabua/pkg/tides"
	"github.com/spencer-p/tabua/pkg/timetricks"
)

// Query keys understood by ParseValues.
const (
	KeyPreset  = "preset"
	KeyFrom    = "from"
	KeyTo      = "to"
	KeyMin     = "min"
	KeyMax     = "max"
	KeyStart   = "start"
	KeyEnd     = "end"
	KeyWeekday = "weekday"

	dateFormat = "2006-01-02"
)

// ParseValues builds Criteria from query values. A preset, if named, supplies
// the starting bounds and any explicit key overrides it. Values that cannot
// be read are reported as errors; bounds that merely exclude everything are
// not.
func ParseValues(v url.Values) (Criteria, error) {
	var c Criteria

	if name := v.Get(KeyPreset); name != "" {
		p, err := LookupPreset(name)
		if err != nil {
			return c, err
		}
		c = p.Criteria()
	}

	var err error
	if s := v.Get(KeyFrom); s != "" {
		if c.DateFrom, err = time.Parse(dateFormat, s); err != nil {
			return c, fmt.Errorf("%s date %q not in fmt YYYY-MM-DD", KeyFrom, s)
		}
	}
	if s := v.Get(KeyTo); s != "" {
		if c.DateTo, err = time.Parse(dateFormat, s); err != nil {
			return c, fmt.Errorf("%s date %q not in fmt YYYY-MM-DD", KeyTo, s)
		}
	}
	if s := v.Get(KeyMin); s != "" {
		if c.HeightMin, err = parseHeight(KeyMin, s); err != nil {
			return c, err
		}
	}
	if s := v.Get(KeyMax); s != "" {
		if c.HeightMax, err = parseHeight(KeyMax, s); err != nil {
			return c, err
		}
	}
	if s := v.Get(KeyStart); s != "" {
		if c.TimeFrom, err = timetricks.NormalizeClock(s); err != nil {
			return c, fmt.Errorf("%s: %w", KeyStart, err)
		}
	}
	if s := v.Get(KeyEnd); s != "" {
		if c.TimeTo, err = timetricks.NormalizeClock(s); err != nil {
			return c, fmt.Errorf("%s: %w", KeyEnd, err)
		}
	}
	for _, raw := range v[KeyWeekday] {
		for _, s := range strings.Split(raw, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			day, err := lookupWeekday(s)
			if err != nil {
				return c, err
			}
			c.Weekdays = append(c.Weekdays, day)
		}
	}
	return c, nil
}

func parseHeight(key, s string) (*float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%s height %q not a float", key, s)
	}
	return &f, nil
}

func lookupWeekday(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, day := range tides.Weekdays {
		if strings.EqualFold(day, s) {
			return day, nil
		}
	}
	return "", fmt.Errorf("%s %q is not one of %s", KeyWeekday, s, strings.Join(tides.Weekdays, ", "))
}

// Values is the inverse of ParseValues, minus Match predicates and presets.
func (c Criteria) Values() url.Values {
	v := make(url.Values)
	if !c.DateFrom.IsZero() {
		v.Set(KeyFrom, c.DateFrom.Format(dateFormat))
	}
	if !c.DateTo.IsZero() {
		v.Set(KeyTo, c.DateTo.Format(dateFormat))
	}
	if c.HeightMin != nil {
		v.Set(KeyMin, strconv.FormatFloat(*c.HeightMin, 'f', -1, 64))
	}
	if c.HeightMax != nil {
		v.Set(KeyMax, strconv.FormatFloat(*c.HeightMax, 'f', -1, 64))
	}
	if c.TimeFrom != "" {
		v.Set(KeyStart, c.TimeFrom)
	}
	if c.TimeTo != "" {
		v.Set(KeyEnd, c.TimeTo)
	}
	for _, w := range c.Weekdays {
		v.Add(KeyWeekday, w)
	}
	return v
}
