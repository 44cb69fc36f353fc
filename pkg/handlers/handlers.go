package handlers

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/spencer-p/tabua/pkg/cache"
	"github.com/spencer-p/tabua/pkg/export"
	"github.com/spencer-p/tabua/pkg/filter"
	"github.com/spencer-p/tabua/pkg/logging"
	"github.com/spencer-p/tabua/pkg/metrics"
	"github.com/spencer-p/tabua/pkg/sunset"
	"github.com/spencer-p/tabua/pkg/tabua"
	"github.com/spencer-p/tabua/pkg/tides"
	"github.com/spencer-p/tabua/pkg/visualize"
)

const (
	keyYear     = "year"
	keyDaylight = "daylight"

	noMatches = "Nenhum registro encontrado com os filtros aplicados."
)

// Options configure the handlers.
type Options struct {
	// DataPath is the JSON tide table.
	DataPath  string
	Normalize tides.Options
	CacheTTL  time.Duration
	// Place is used for daylight filtering and chart shading.
	Place         sunset.Place
	SessionKey    string
	EncryptionKey string
}

// Server serves tide tables read from a single file.
type Server struct {
	opts  Options
	loads *cache.Timed[tides.Batch]
	store sessions.Store
}

// Register adds every route to r. Templates are read from content.
func Register(r *mux.Router, content fs.FS, opts Options) *Server {
	s := &Server{
		opts:  opts,
		loads: cache.NewTimed[tides.Batch](opts.CacheTTL),
		store: newStore(opts.SessionKey, opts.EncryptionKey),
	}

	r.Handle("/", s.makeServerSideIndex(content))
	r.HandleFunc("/api/v1/tides", s.serveTides).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/tides.csv", s.serveCSV).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/chart.svg", s.serveChart).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/presets", servePresets).Methods(http.MethodGet)
	return s
}

// load reads and normalizes the table for a year, memoized per path and
// year. A table that cannot be read is not memoized.
func (s *Server) load(year tides.Year) (tides.Batch, error) {
	key := fmt.Sprintf("%s %s", s.opts.DataPath, year)
	return s.loads.Memo(key, func() (tides.Batch, error) {
		days, err := tabua.ReadFile(s.opts.DataPath)
		if err != nil {
			metrics.ObserveSourceUnavailable()
			logging.Warnw("Tide table unavailable", "path", s.opts.DataPath, "err", err)
			return tides.Batch{}, err
		}

		batch := tides.Normalize(days, year, s.opts.Normalize)
		for _, skip := range batch.Skipped {
			logging.Debugw("Skipped tide table entry",
				"day", skip.Day,
				"event", skip.Event,
				"dia", skip.DayMonth,
				"reason", skip.Reason.String(),
				"err", skip.Err)
		}
		metrics.ObserveLoad(year, batch)
		logging.Infow("Loaded tide table",
			"path", s.opts.DataPath,
			"year", year.String(),
			"records", len(batch.Records),
			"skipped", len(batch.Skipped))
		return batch, nil
	})
}

// request is a parsed query.
type request struct {
	year     tides.Year
	criteria filter.Criteria
	daylight bool
}

func parseRequest(v url.Values) (request, error) {
	var req request
	var err error
	if req.year, err = tides.ParseYear(v.Get(keyYear)); err != nil {
		return req, err
	}
	if req.criteria, err = filter.ParseValues(v); err != nil {
		return req, err
	}
	if s := v.Get(keyDaylight); s != "" {
		// HTML checkboxes submit "on".
		if s == "on" {
			req.daylight = true
		} else if req.daylight, err = strconv.ParseBool(s); err != nil {
			return req, fmt.Errorf("%s %q not a boolean", keyDaylight, s)
		}
	}
	return req, nil
}

// result is the outcome of a query. Warning is set, and Records empty, when
// the table could not be read.
type result struct {
	request
	Records []tides.Record
	Warning string
}

func (s *Server) query(v url.Values) (result, error) {
	req, err := parseRequest(v)
	if err != nil {
		return result{}, err
	}
	res := result{request: req, Records: []tides.Record{}}

	batch, err := s.load(req.year)
	if err != nil {
		res.Warning = err.Error()
		return res, nil
	}

	c := req.criteria
	if req.daylight && len(batch.Records) > 0 {
		first, last := batch.Records[0], batch.Records[len(batch.Records)-1]
		events := sunset.Between(first.Date, last.Date, s.opts.Place)
		c.Match = append(c.Match, filter.During(events.Daylight))
	}
	res.Records = filter.Apply(batch.Records, c)
	return res, nil
}

func badRequest(w http.ResponseWriter, err error) {
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Bad query: %v", err)
}

type tidesResponse struct {
	Count   int            `json:"count"`
	Label   string         `json:"label,omitempty"`
	Warning string         `json:"warning,omitempty"`
	Records []tides.Record `json:"records"`
}

func (s *Server) serveTides(w http.ResponseWriter, r *http.Request) {
	res, err := s.query(r.URL.Query())
	if err != nil {
		badRequest(w, err)
		return
	}

	label, _ := filter.ExportLabel(res.Records)
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tidesResponse{
		Count:   len(res.Records),
		Label:   label,
		Warning: res.Warning,
		Records: res.Records,
	}); err != nil {
		logging.Errorf("Failed to encode JSON result: %+v", err)
	}
}

func (s *Server) serveCSV(w http.ResponseWriter, r *http.Request) {
	res, err := s.query(r.URL.Query())
	if err != nil {
		badRequest(w, err)
		return
	}

	out, ok, err := export.Build(res.Records, s.opts.Normalize.Embark)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Failed to export: %+v", err)
		logging.Errorf("Failed to export: %+v", err)
		return
	}
	metrics.ObserveExport(ok)
	if !ok {
		w.Header().Add("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, noMatches)
		return
	}

	w.Header().Add("Content-Type", export.ContentType)
	w.Header().Add("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request) {
	res, err := s.query(r.URL.Query())
	if err != nil {
		badRequest(w, err)
		return
	}
	if len(res.Records) == 0 {
		w.Header().Add("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, noMatches)
		return
	}

	w.Header().Add("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := s.chart(res.Records).Encode(w); err != nil {
		logging.Errorf("Failed to draw chart: %v", err)
	}
}

func (s *Server) chart(records []tides.Record) *visualize.Chart {
	first, last := records[0], records[len(records)-1]
	return visualize.NewChart(records, sunset.Between(first.Date, last.Date, s.opts.Place))
}

func servePresets(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(filter.Presets()); err != nil {
		logging.Errorf("Failed to encode presets: %v", err)
	}
}
