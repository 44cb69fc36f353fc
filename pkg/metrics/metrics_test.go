package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spencer-p/tabua/pkg/tides"
)

func TestObserveLoad(t *testing.T) {
	b := tides.Batch{
		Records: make([]tides.Record, 3),
		Skipped: []tides.Skip{
			{Reason: tides.MalformedDay, Err: errors.New("bad day")},
			{Reason: tides.MalformedHeight, Err: errors.New("bad height")},
			{Reason: tides.MalformedHeight, Err: errors.New("bad height")},
		},
	}
	before := testutil.ToFloat64(entriesSkipped.WithLabelValues("malformed_height"))

	ObserveLoad(tides.Year(2026), b)

	if got := testutil.ToFloat64(recordsLoaded.WithLabelValues("2026")); got != 3 {
		t.Errorf("records_loaded = %f, wanted 3", got)
	}
	if got := testutil.ToFloat64(entriesSkipped.WithLabelValues("malformed_height")) - before; got != 2 {
		t.Errorf("malformed_height grew by %f, wanted 2", got)
	}
}

func TestLatencyHandler(t *testing.T) {
	h := LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/tides", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("got status %d", rec.Code)
	}
	if got := testutil.CollectAndCount(requestLatency); got < 1 {
		t.Errorf("no latency observed")
	}
}
