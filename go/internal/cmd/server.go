package main

import (
	"database/sql"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

type serverOptions struct {
	Addr         string
	AuthService  auth.Service
	AuthRequired bool
}

func setupServer(database *sql.DB, services *Services, opts serverOptions) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	router.Use(c.Handler)

	interceptors := connect.WithInterceptors(auth.NewInterceptor(opts.AuthService, opts.AuthRequired))
	rpc.Mount(router, services.Routes(interceptors))

	setupHealthCheck(router, database)
	setupMetrics(router, database)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func setupHealthCheck(router chi.Router, database *sql.DB) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check: database unreachable")
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

func setupMetrics(router chi.Router, database *sql.DB) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(database, "playoffpool"),
	)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
