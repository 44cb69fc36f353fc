package handlers

import (
	"bytes"
	"crypto/sha1"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/tabua/pkg/export"
	"github.com/spencer-p/tabua/pkg/filter"
	"github.com/spencer-p/tabua/pkg/logging"
	"github.com/spencer-p/tabua/pkg/tides"
)

const (
	sessionName      = "tabua"
	sessionLastQuery = "last-query"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

func newStore(sessionKey, encryptionKey string) sessions.Store {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(sessionKey),
			deriveEncryptionKey(encryptionKey),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

func deriveEncryptionKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

type TemplateInput struct {
	Query    url.Values
	Year     string
	Daylight bool
	Presets  []Option
	Weekdays []Option

	Records []tides.Record
	Embark  bool
	Label   string
	Chart   template.HTML

	CSVLink string
	Warning string
	Error   string
}

// Option is a choice in a form control.
type Option struct {
	Name     string
	Selected bool
}

// makeServerSideIndex serves the filter page fully rendered on the server.
// A visit without a query repeats the last query of the session, or the
// default preset for a first visit.
func (s *Server) makeServerSideIndex(content fs.FS) http.HandlerFunc {
	indexTemplate := template.Must(template.ParseFS(content, "static/index.template.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.store.Get(r, sessionName)
		if err != nil {
			logging.Debugw("Discarding unreadable session", "err", err)
		}

		query := r.URL.Query()
		if len(query) == 0 {
			if last, ok := session.Values[sessionLastQuery].(string); ok {
				query, _ = url.ParseQuery(last)
			} else {
				query = url.Values{filter.KeyPreset: {filter.DefaultPreset}}
			}
		}

		tinput := TemplateInput{
			Query:  query,
			Year:   query.Get(keyYear),
			Embark: s.opts.Normalize.Embark,
		}
		tinput.Presets = options(presetNames(), query.Get(filter.KeyPreset))
		tinput.Weekdays = options(tides.Weekdays, query[filter.KeyWeekday]...)

		w.Header().Add("Content-Type", "text/html")
		res, err := s.query(query)
		if err != nil {
			tinput.Error = err.Error()
			w.WriteHeader(http.StatusBadRequest)
		} else {
			session.Values[sessionLastQuery] = query.Encode()
			if err := session.Save(r, w); err != nil {
				logging.Errorf("Failed to save session: %v", err)
			}

			tinput.Daylight = res.daylight
			tinput.Records = res.Records
			tinput.Warning = res.Warning
			if _, ok := export.Filename(res.Records); ok {
				tinput.Label, _ = filter.ExportLabel(res.Records)
				tinput.CSVLink = "api/v1/tides.csv?" + query.Encode()

				var chart bytes.Buffer
				if _, err := s.chart(res.Records).Encode(&chart); err != nil {
					logging.Errorf("Failed to draw chart: %v", err)
				} else {
					tinput.Chart = template.HTML(chart.String())
				}
			}
			w.WriteHeader(http.StatusOK)
		}

		if err := indexTemplate.Execute(w, tinput); err != nil {
			logging.Errorf("Failed to execute template: %v", err)
		}
	})
}

func presetNames() []string {
	var names []string
	for _, p := range filter.Presets() {
		names = append(names, p.Name)
	}
	return names
}

func options(names []string, selected ...string) []Option {
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	opts := make([]Option, len(names))
	for i, name := range names {
		opts[i] = Option{Name: name, Selected: set[name]}
	}
	return opts
}
