package timetricks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dayFormat   = "20060102"
	clockFormat = "15:04"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock returns midnight of t's calendar day in t's location.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SetClock returns t's calendar day at the given wall clock.
func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, int(hour), int(minute), 0, 0, t.Location())
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings. The strings sort in calendar order.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}

// Clock formats the wall clock of t as zero-padded 24h "HH:MM".
func Clock(t time.Time) string {
	return t.Format(clockFormat)
}

// ParseClock reads "H:MM" or "HH:MM" and returns the hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(ms) != 2 || len(hs) < 1 || len(hs) > 2 {
		return 0, 0, fmt.Errorf("clock %q not in fmt HH:MM", s)
	}
	if hour, err = strconv.Atoi(hs); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock %q has invalid hour", s)
	}
	if minute, err = strconv.Atoi(ms); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q has invalid minute", s)
	}
	return hour, minute, nil
}

// NormalizeClock rewrites a parseable clock as zero-padded "HH:MM".
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// ParseDayMonth builds the calendar date for a "DD/MM" string in the given
// year. Dates that do not exist, like 31/02, are rejected rather than
// normalized into the following month.
func ParseDayMonth(year int, s string, loc *time.Location) (time.Time, error) {
	ds, ms, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return time.Time{}, fmt.Errorf("day %q not in fmt DD/MM", s)
	}
	day, err := strconv.Atoi(strings.TrimSpace(ds))
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q has invalid day of month: %w", s, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q has invalid month: %w", s, err)
	}
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("day %q out of range for year %d", s, year)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("day %q does not exist in %d", s, year)
	}
	return t, nil
}

// RoundClock rounds the wall clock of t to the nearest multiple of step,
// counted from midnight of t's day. Halfway values round up.
func RoundClock(t time.Time, step time.Duration) time.Time {
	since := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	since = since.Round(step)
	y, m, d := t.Date()
	return time.Date(y, m, d, int(since/time.Hour), int(since%time.Hour/time.Minute), 0, 0, t.Location())
}
