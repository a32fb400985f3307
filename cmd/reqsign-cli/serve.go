package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/reqsign-go/internal/obs"
)

// runServe exposes the configured signer over a loopback HTTP server: a
// POST /sign endpoint accepting the same JSON request description as the
// sign subcommand, a /healthz check, and an optional Prometheus /metrics
// endpoint, all grounded on the teacher's chi usage in its dashboard
// handler.
func runServe(cfg *Config, signer unifiedSigner, reg *prometheus.Registry) {
	logger := obs.Component("reqsign-cli.serve")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/sign", func(w http.ResponseWriter, req *http.Request) {
		var desc requestDescription
		if err := json.NewDecoder(req.Body).Decode(&desc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		head := desc.toHead()
		if err := signer.Sign(req.Context(), head, desc.expiresIn()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toResult(head))
	})

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	logger.Info().Str("addr", cfg.Server.Addr).Msg("reqsign-cli serve listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}
