package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"

	"github.com/spencer-p/tabua/pkg/filter"
	"github.com/spencer-p/tabua/pkg/sunset"
	"github.com/spencer-p/tabua/pkg/tides"
)

const tableJSON = `[
	{"ano": 2025, "dia": "31/12", "marés": [
		{"hora": "04:50", "altura_m": "0.3"},
		{"hora": "11:35", "altura_m": "2.2"}
	]},
	{"ano": 2026, "dia": "10/01", "marés": [
		{"hora": "08:10", "altura_m": "0.5"},
		{"hora": "14:20", "altura_m": "2.1"},
		{"hora": "20:30", "altura_m": "0.6"}
	]},
	{"ano": 2026, "dia": "31/02", "marés": [
		{"hora": "08:10", "altura_m": "0.5"}
	]},
	{"ano": 2026, "dia": "12/01", "marés": [
		{"hora": "09:40", "altura_m": "0.4"},
		{"hora": "15:50", "altura_m": "abc"}
	]}
]`

func newServer(t *testing.T) (*mux.Router, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabua.json")
	if err := os.WriteFile(path, []byte(tableJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	r := mux.NewRouter()
	Register(r, os.DirFS("../.."), Options{
		DataPath: path,
		Normalize: tides.Options{
			Zone:   sunset.Cabedelo.Location,
			Embark: true,
		},
		CacheTTL:      time.Hour,
		Place:         sunset.Cabedelo,
		SessionKey:    "test-session",
		EncryptionKey: "test-encryption",
	})
	return r, path
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type wireRecord struct {
	Date    string  `json:"data"`
	Time    string  `json:"hora"`
	Embark  string  `json:"embarque"`
	Height  float64 `json:"altura"`
	Type    string  `json:"tipo"`
	Weekday string  `json:"dia_semana"`
}

type wireResponse struct {
	Count   int          `json:"count"`
	Label   string       `json:"label"`
	Warning string       `json:"warning"`
	Records []wireRecord `json:"records"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) wireResponse {
	t.Helper()
	var resp wireResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	return resp
}

func TestServeTides(t *testing.T) {
	r, _ := newServer(t)

	table := []struct {
		query     string
		wantLabel string
		wantTimes []string
	}{
		{"", "2025-2026", []string{"04:50", "11:35", "08:10", "14:20", "20:30", "09:40"}},
		{"?year=2026", "2026", []string{"08:10", "14:20", "20:30", "09:40"}},
		{"?year=2025", "2025", []string{"04:50", "11:35"}},
		{"?max=0.5", "2025-2026", []string{"04:50", "08:10", "09:40"}},
		{"?weekday=Sábado&weekday=Domingo", "2026", []string{"08:10", "14:20", "20:30"}},
		{"?preset=Padrão", "2026", []string{"08:10", "09:40"}},
		{"?daylight=1", "2025-2026", []string{"11:35", "08:10", "14:20", "09:40"}},
		{"?min=2&max=-2", "", []string{}},
		{"?year=1999", "", []string{}},
	}

	for _, tc := range table {
		t.Run(tc.query, func(t *testing.T) {
			rec := get(r, "/api/v1/tides"+tc.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("got status %d: %s", rec.Code, rec.Body)
			}
			resp := decode(t, rec)
			got := []string{}
			for _, wr := range resp.Records {
				got = append(got, wr.Time)
			}
			if diff := cmp.Diff(tc.wantTimes, got); diff != "" {
				t.Errorf("incorrect records (-want,+got):\n%s", diff)
			}
			if resp.Count != len(tc.wantTimes) || resp.Label != tc.wantLabel {
				t.Errorf("got count %d label %q", resp.Count, resp.Label)
			}
			if resp.Warning != "" {
				t.Errorf("unexpected warning %q", resp.Warning)
			}
		})
	}
}

func TestServeTidesFields(t *testing.T) {
	r, _ := newServer(t)
	resp := decode(t, get(r, "/api/v1/tides?from=2026-01-10&to=2026-01-10&end=09:00"))
	want := []wireRecord{{
		Date: "2026-01-10", Time: "08:10", Embark: "06:00", Height: 0.5, Type: "BAIXA", Weekday: "Sábado",
	}}
	if diff := cmp.Diff(want, resp.Records); diff != "" {
		t.Errorf("incorrect record (-want,+got):\n%s", diff)
	}
}

func TestBadQuery(t *testing.T) {
	r, _ := newServer(t)
	for _, q := range []string{"year=todos", "year=10000", "min=baixa", "start=25:00", "weekday=Funday", "daylight=talvez", "preset=nope"} {
		for _, p := range []string{"/api/v1/tides", "/api/v1/tides.csv", "/api/v1/chart.svg", "/"} {
			if rec := get(r, p+"?"+q); rec.Code != http.StatusBadRequest {
				t.Errorf("%s?%s: got status %d, wanted 400", p, q, rec.Code)
			}
		}
	}
}

func TestServeCSV(t *testing.T) {
	r, _ := newServer(t)

	rec := get(r, "/api/v1/tides.csv?max=0.5")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="mare_2025-2026.csv"` {
		t.Errorf("got disposition %q", got)
	}
	want := "data,hora,embarque,altura,tipo,dia_semana,local\n" +
		"2025-12-31,04:50,03:00,0.3,BAIXA,Quarta,Porto de Cabedelo - PB\n" +
		"2026-01-10,08:10,06:00,0.5,BAIXA,Sábado,Porto de Cabedelo - PB\n" +
		"2026-01-12,09:40,07:30,0.4,BAIXA,Segunda,Porto de Cabedelo - PB\n"
	if diff := cmp.Diff(want, rec.Body.String()); diff != "" {
		t.Errorf("incorrect CSV (-want,+got):\n%s", diff)
	}

	if rec := get(r, "/api/v1/tides.csv?min=2&max=-2"); rec.Code != http.StatusNotFound {
		t.Errorf("empty export: got status %d, wanted 404", rec.Code)
	}
}

func TestServeChart(t *testing.T) {
	r, _ := newServer(t)
	rec := get(r, "/api/v1/chart.svg?year=2026")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("got status %d: %.80q", rec.Code, rec.Body)
	}
	if rec := get(r, "/api/v1/chart.svg?year=1999"); rec.Code != http.StatusNotFound {
		t.Errorf("empty chart: got status %d, wanted 404", rec.Code)
	}
}

func TestServePresets(t *testing.T) {
	r, _ := newServer(t)
	var got []filter.Preset
	if err := json.NewDecoder(get(r, "/api/v1/presets").Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(filter.Presets(), got); diff != "" {
		t.Errorf("incorrect presets (-want,+got):\n%s", diff)
	}
}

func TestSourceUnavailable(t *testing.T) {
	r, path := newServer(t)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	resp := decode(t, get(r, "/api/v1/tides"))
	if resp.Count != 0 || resp.Warning == "" {
		t.Errorf("got %+v, wanted no records and a warning", resp)
	}
	if rec := get(r, "/api/v1/tides.csv"); rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, wanted 404", rec.Code)
	}
	if rec := get(r, "/"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Tábua indisponível") {
		t.Errorf("index did not report the missing table: %d", rec.Code)
	}

	// Failures are not memoized.
	if err := os.WriteFile(path, []byte(tableJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if resp := decode(t, get(r, "/api/v1/tides")); resp.Count != 6 || resp.Warning != "" {
		t.Errorf("got %+v after restoring the table", resp)
	}
}

func TestLoadMemoized(t *testing.T) {
	r, path := newServer(t)
	if resp := decode(t, get(r, "/api/v1/tides?year=2026")); resp.Count != 4 {
		t.Fatalf("got %d records", resp.Count)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if resp := decode(t, get(r, "/api/v1/tides?year=2026")); resp.Count != 4 || resp.Warning != "" {
		t.Errorf("year 2026 not served from cache: %+v", resp)
	}
	if resp := decode(t, get(r, "/api/v1/tides?year=2025")); resp.Warning == "" {
		t.Errorf("year 2025 should have been loaded separately: %+v", resp)
	}
}

func TestIndex(t *testing.T) {
	r, _ := newServer(t)

	// First visit applies the default preset.
	rec := get(r, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"2 registros encontrados (2026)", "api/v1/tides.csv?", "<svg", "Baixar CSV"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}

	// A query is remembered for the next bare visit.
	rec = get(r, "/?year=2025")
	if !strings.Contains(rec.Body.String(), "2 registros encontrados (2025)") {
		t.Errorf("query not applied:\n%s", rec.Body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie set")
	}
	rec = get(r, "/", cookies...)
	if !strings.Contains(rec.Body.String(), "2 registros encontrados (2025)") {
		t.Errorf("last query not restored:\n%s", rec.Body)
	}

	rec = get(r, "/?min=2&max=-2")
	if !strings.Contains(rec.Body.String(), "Nenhum registro encontrado") {
		t.Errorf("empty result not reported")
	}
}
