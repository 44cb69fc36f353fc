package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spencer-p/tabua/pkg/tides"
)

const subsystem = "tabua"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	recordsLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:      "records_loaded",
			Subsystem: subsystem,
			Help:      "Tide records produced by the last load of each year selection.",
		},
		[]string{"year"},
	)

	entriesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "entries_skipped_total",
			Subsystem: subsystem,
			Help:      "Days and events left out of loads, by reason.",
		},
		[]string{"reason"},
	)

	sourceErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:      "source_unavailable_total",
			Subsystem: subsystem,
			Help:      "Loads that found the tide table missing or unreadable.",
		},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "exports_total",
			Subsystem: subsystem,
			Help:      "CSV exports served, by whether any record matched.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		recordsLoaded,
		entriesSkipped,
		sourceErrors,
		exports,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveLoad records the outcome of normalizing a table.
func ObserveLoad(year tides.Year, b tides.Batch) {
	recordsLoaded.WithLabelValues(year.String()).Set(float64(len(b.Records)))
	for reason, n := range b.SkipCounts() {
		entriesSkipped.WithLabelValues(reason.String()).Add(float64(n))
	}
}

func ObserveSourceUnavailable() {
	sourceErrors.Inc()
}

// ObserveExport records an export request; empty ones produce no file.
func ObserveExport(produced bool) {
	result := "empty"
	if produced {
		result = "file"
	}
	exports.WithLabelValues(result).Inc()
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}
