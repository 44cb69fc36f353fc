package tabua

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrSourceUnavailable is wrapped by every error that means the table as a
// whole could not be read. Callers should treat it as an empty table.
var ErrSourceUnavailable = errors.New("tide table unavailable")

// Decode reads a full tide table. Only a document that is not a JSON array
// fails; entries of the wrong shape are returned with their Err set.
func Decode(r io.Reader) ([]Day, error) {
	var days []Day
	if err := json.NewDecoder(r).Decode(&days); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrSourceUnavailable, err)
	}
	return days, nil
}

// ReadFile reads the tide table stored at path.
func ReadFile(path string) ([]Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	days, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return days, nil
}
