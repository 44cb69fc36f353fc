package visualize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spencer-p/tabua/pkg/splines"
	"github.com/spencer-p/tabua/pkg/sunset"
	"github.com/spencer-p/tabua/pkg/tides"
)

const (
	width   = 1200
	height  = 300
	samples = width / 4

	// Heights always shown, in meters.
	floorHeight = -0.5
	ceilHeight  = 3.0
)

var errNoRecords = errors.New("no tide records to draw")

// Chart draws tide heights against time for a set of records.
type Chart struct {
	records   []tides.Record
	sunEvents sunset.SunEvents

	start, end time.Time
	low, high  float64
}

// NewChart prepares a chart of records, which must be in time order. Sun
// events, if any, shade the daytime.
func NewChart(records []tides.Record, sunEvents sunset.SunEvents) *Chart {
	c := &Chart{
		records:   records,
		sunEvents: sunEvents,
		low:       floorHeight,
		high:      ceilHeight,
	}
	if len(records) == 0 {
		return c
	}

	c.start = records[0].Timestamp()
	c.end = records[len(records)-1].Timestamp()
	if !c.end.After(c.start) {
		c.start = c.start.Add(-12 * time.Hour)
		c.end = c.end.Add(12 * time.Hour)
	}
	for _, r := range records {
		c.low = math.Min(c.low, r.Height)
		c.high = math.Max(c.high, r.Height)
	}
	return c
}

func (c *Chart) Encode(w io.Writer) (int, error) {
	if len(c.records) == 0 {
		return 0, errNoRecords
	}

	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Shade the daytime of every day in view.
	for i := 0; i+1 < len(c.sunEvents); i += 2 {
		rise, set := c.sunEvents[i].Time, c.sunEvents[i+1].Time
		if set.Before(c.start) || rise.After(c.end) {
			continue
		}
		risex, setx := c.timeToX(rise), c.timeToX(set)
		io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
			risex, 0, setx-risex, height))
	}

	// Mark the line between low and high tides.
	thresh := c.heightToY(tides.HighThreshold)
	io(fmt.Fprintf(w, `<line class="threshold" stroke="#e76f51" stroke-dasharray="6 4" x1="0" y1="%d" x2="%d" y2="%d"/>`,
		thresh, width, thresh))

	// Draw the smoothed curve through every record.
	points := make([]splines.Point, len(c.records))
	for i, r := range c.records {
		points[i] = splines.Point{Time: r.Timestamp(), Height: r.Height}
	}
	spline := splines.CurvesBetween(points)
	if len(spline) > 0 {
		first, last := spline[0].Start, spline[len(spline)-1].End
		step := last.Sub(first) / samples
		io(fmt.Fprintf(w, `<path class="tide" fill="none" stroke="steelblue" d="`))
		for i := 0; i <= samples; i++ {
			t := first.Add(step * time.Duration(i))
			if i == samples {
				t = last
			}
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			io(fmt.Fprintf(w, `%s %d,%d `, cmd, c.timeToX(t), c.heightToY(spline.Eval(t))))
		}
		io(fmt.Fprintf(w, `"/>`))
	}

	for _, r := range c.records {
		io(fmt.Fprintf(w, `<circle class="%s" cx="%d" cy="%d" r="3"><title>%s %s %.2fm</title></circle>`,
			r.Category, c.timeToX(r.Timestamp()), c.heightToY(r.Height), r.Day(), r.Time, r.Height))
	}

	// Insert spline data as JSON.
	io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
	if encErr := json.NewEncoder(w).Encode(spline); encErr != nil {
		err = encErr
	}
	io(fmt.Fprintf(w, `</text>`))

	// Insert bounds of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d %d</text>`, c.start.Unix(), c.end.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (c *Chart) heightToY(h float64) int {
	if math.IsNaN(h) {
		h = c.low
	}
	return height - int((h-c.low)*height/(c.high-c.low))
}

func (c *Chart) timeToX(t time.Time) int {
	span := c.end.Sub(c.start).Seconds()
	return int(t.Sub(c.start).Seconds() * width / span)
}
