package tides

import "time"

var weekdayNames = map[string]string{
	"Monday":    "Segunda",
	"Tuesday":   "Terça",
	"Wednesday": "Quarta",
	"Thursday":  "Quinta",
	"Friday":    "Sexta",
	"Saturday":  "Sábado",
	"Sunday":    "Domingo",
}

// Weekdays lists the localized weekday labels from Monday to Sunday.
var Weekdays = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}

// WeekdayName returns the localized label of t's weekday. Names missing from
// the table are returned as is.
func WeekdayName(t time.Time) string {
	name := t.Weekday().String()
	if local, ok := weekdayNames[name]; ok {
		return local
	}
	return name
}
