// Package export serializes filtered tide records for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spencer-p/tabua/pkg/filter"
	"github.com/spencer-p/tabua/pkg/tides"
)

const ContentType = "text/csv"

// Export is a ready to download CSV file.
type Export struct {
	Filename string
	Body     []byte
}

// Header returns the CSV column names. The embarkation column is only
// present when embark is set.
func Header(embark bool) []string {
	if embark {
		return []string{"data", "hora", "embarque", "altura", "tipo", "dia_semana", "local"}
	}
	return []string{"data", "hora", "altura", "tipo", "dia_semana", "local"}
}

func row(r tides.Record, embark bool) []string {
	height := strconv.FormatFloat(r.Height, 'f', -1, 64)
	if embark {
		return []string{r.Day(), r.Time, r.Embark, height, r.Category.String(), r.Weekday, r.Location}
	}
	return []string{r.Day(), r.Time, height, r.Category.String(), r.Weekday, r.Location}
}

// WriteCSV writes a header and one row per record.
func WriteCSV(w io.Writer, records []tides.Record, embark bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(embark)); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r, embark)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename suggests a file name from the years of the records, e.g.
// "mare_2025-2026.csv". Empty results have no file name.
func Filename(records []tides.Record) (string, bool) {
	label, ok := filter.ExportLabel(records)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("mare_%s.csv", label), true
}

// Build serializes records into an Export. It reports false, and produces
// nothing, when there are no records.
func Build(records []tides.Record, embark bool) (Export, bool, error) {
	name, ok := Filename(records)
	if !ok {
		return Export{}, false, nil
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, embark); err != nil {
		return Export{}, false, fmt.Errorf("writing %s: %w", name, err)
	}
	return Export{Filename: name, Body: buf.Bytes()}, true, nil
}
