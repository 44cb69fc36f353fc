package main

import (
	"embed"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spencer-p/tabua/pkg/config"
	"github.com/spencer-p/tabua/pkg/handlers"
	"github.com/spencer-p/tabua/pkg/logging"
	"github.com/spencer-p/tabua/pkg/metrics"
	"github.com/spencer-p/tabua/pkg/sunset"
	"github.com/spencer-p/tabua/pkg/tides"
)

//go:embed static
var content embed.FS

func main() {
	env, err := config.Process()
	if err != nil {
		logging.Fatalf("Bad configuration: %v", err)
	}
	if err := logging.Init(env.Debug); err != nil {
		logging.Fatalf("%v", err)
	}
	defer logging.Sync()

	zone, _ := env.TimeZone()
	place := sunset.Cabedelo
	place.Location = zone

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.Handle("/metrics", promhttp.Handler())

	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, content, handlers.Options{
		DataPath: env.DataPath,
		Normalize: tides.Options{
			Location: env.Location,
			Zone:     zone,
			Embark:   env.Embark,
		},
		CacheTTL:      env.CacheTTL,
		Place:         place,
		SessionKey:    env.SessionKey,
		EncryptionKey: env.EncryptionKey,
	})

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	logging.Infow("Listening and serving",
		"addr", srv.Addr,
		"prefix", env.Prefix,
		"data", env.DataPath)
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatalf("%v", err)
	}
}
