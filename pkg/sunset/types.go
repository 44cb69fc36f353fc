package sunset

import (
	"fmt"
	"sort"
	"time"

	// The port's zone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

var (
	Cabedelo = Place{
		-6.9681, -34.8403,
		locationOrPanic("America/Fortaleza"),
	}
)

// SunEvents is a time series of SunEvent, alternating sunrise and sunset.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time.Format(time.RFC822), s.Event)
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

// Daylight reports whether t falls between a sunrise and the sunset after it.
// Times outside the span of the events are never daylight.
func (es SunEvents) Daylight(t time.Time) bool {
	next := sort.Search(len(es), func(i int) bool {
		return es[i].Time.After(t)
	})
	return next > 0 && next < len(es) && es[next-1].Event == Sunrise
}

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
