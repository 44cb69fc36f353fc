// Command tabua filters a tide table and exports the result as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spencer-p/tabua/pkg/export"
	"github.com/spencer-p/tabua/pkg/filter"
	"github.com/spencer-p/tabua/pkg/logging"
	"github.com/spencer-p/tabua/pkg/sunset"
	"github.com/spencer-p/tabua/pkg/tabua"
	"github.com/spencer-p/tabua/pkg/tides"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	outputAuto = "auto"
)

// queryFlags are the flags that map one to one onto filter query keys.
var queryFlags = []struct {
	key, usage string
}{
	{filter.KeyPreset, "operation preset seeding the bounds"},
	{filter.KeyFrom, "first date, YYYY-MM-DD"},
	{filter.KeyTo, "last date, YYYY-MM-DD"},
	{filter.KeyMin, "minimum height in meters"},
	{filter.KeyMax, "maximum height in meters"},
	{filter.KeyStart, "earliest time of day, HH:MM"},
	{filter.KeyEnd, "latest time of day, HH:MM"},
	{filter.KeyWeekday, "comma separated weekdays, e.g. Sábado,Domingo"},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("tabua", flag.ContinueOnError)
	file := fs.String("file", "tabua.json", "JSON tide table")
	year := fs.String("year", "all", "year to load, or all")
	embark := fs.Bool("embark", true, "include the embarkation time")
	daylight := fs.Bool("daylight", false, "only keep tides between sunrise and sunset")
	output := fs.String("o", "", "output file; auto picks the suggested name; empty writes to stdout")
	debug := fs.Bool("debug", false, "verbose logging")
	query := make(map[string]*string, len(queryFlags))
	for _, qf := range queryFlags {
		query[qf.key] = fs.String(qf.key, "", qf.usage)
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if err := logging.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer logging.Sync()

	v := make(url.Values)
	for key, s := range query {
		if *s != "" {
			v.Set(key, *s)
		}
	}
	criteria, err := filter.ParseValues(v)
	if err != nil {
		logging.Errorf("Bad filter: %v", err)
		return exitUsage
	}
	sel, err := tides.ParseYear(*year)
	if err != nil {
		logging.Errorf("Bad filter: %v", err)
		return exitUsage
	}

	records, err := load(*file, sel, tides.Options{
		Zone:   sunset.Cabedelo.Location,
		Embark: *embark,
	})
	if errors.Is(err, tabua.ErrSourceUnavailable) {
		logging.Warnw("Tide table unavailable", "path", *file, "err", err)
	} else if err != nil {
		logging.Errorf("%v", err)
		return exitError
	}

	if *daylight && len(records) > 0 {
		events := sunset.Between(records[0].Date, records[len(records)-1].Date, sunset.Cabedelo)
		criteria.Match = append(criteria.Match, filter.During(events.Daylight))
	}
	records = filter.Apply(records, criteria)

	out, ok, err := export.Build(records, *embark)
	if err != nil {
		logging.Errorf("%v", err)
		return exitError
	}
	if !ok {
		logging.Infow("No records match the filter", "query", v.Encode())
		return exitOK
	}

	if err := write(out, *output, stdout); err != nil {
		logging.Errorf("%v", err)
		return exitError
	}
	logging.Infow("Exported tide records", "records", len(records), "file", out.Filename)
	return exitOK
}

func load(path string, year tides.Year, opts tides.Options) ([]tides.Record, error) {
	days, err := tabua.ReadFile(path)
	if err != nil {
		return nil, err
	}
	batch := tides.Normalize(days, year, opts)
	for _, skip := range batch.Skipped {
		logging.Debugw("Skipped tide table entry",
			"day", skip.Day,
			"event", skip.Event,
			"dia", skip.DayMonth,
			"reason", skip.Reason.String(),
			"err", skip.Err)
	}
	if len(batch.Skipped) > 0 {
		logging.Warnw("Skipped malformed entries", "counts", batch.SkipCounts())
	}
	return batch.Records, nil
}

func write(out export.Export, path string, stdout io.Writer) error {
	switch path {
	case "":
		_, err := stdout.Write(out.Body)
		return err
	case outputAuto:
		path = out.Filename
	}
	if err := os.WriteFile(path, out.Body, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
