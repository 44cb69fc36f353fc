package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/tabua/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns a list of ordered sun events from the starting day to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	start = timetricks.TrimClock(start.In(place.Location))

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// The sunrise package may land on a neighbouring day; walk towards the
	// start day a bounded number of steps.
	for i := 0; i < 3 && !timetricks.SameDay(start, s.Sunrise().In(place.Location)); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise().In(place.Location), Sunrise}
		ret[i+1] = SunEvent{s.Sunset().In(place.Location), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Between returns the sun events of every calendar day from first to last,
// inclusive.
func Between(first, last time.Time, place Place) SunEvents {
	first = timetricks.TrimClock(first.In(place.Location))
	last = timetricks.TrimClock(last.In(place.Location))
	if last.Before(first) {
		return nil
	}
	return GetSunEvents(first, last.Sub(first)+24*time.Hour, place)
}
