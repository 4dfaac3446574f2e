package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/dbconfig"
	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/draft/gateway"
	"github.com/mcdev12/playoffpool/go/internal/draft/outbox"
	"github.com/mcdev12/playoffpool/go/internal/draft/repository"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := getEnv("GATEWAY_PORT", "8081")
	authRequired, _ := strconv.ParseBool(getEnv("AUTH_REQUIRED", "false"))

	dbCfg := dbconfig.NewConfigFromEnv()
	db, err := dbconfig.Open(ctx, dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.URL = getEnv("NATS_URL", jsCfg.URL)
	nc, err := outbox.Connect(jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer nc.Close()

	log.Info().
		Str("database", dbCfg.Database).
		Str("nats_url", jsCfg.URL).
		Str("port", port).
		Msg("starting draft gateway")

	// Read-only use of the engine; picks never go through the gateway.
	draftApp := draft.NewApp(repository.NewRepository(db), draft.DefaultConfig())

	gatewayService, err := gateway.NewService(ctx, gateway.DefaultConfig(), nc, draftApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway service")
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if !nc.IsConnected() {
			http.Error(w, "NATS disconnected", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	})
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.NewService(os.Getenv("JWT_SECRET")), authRequired))
		gatewayService.Routes(r)
	})

	// No WriteTimeout: websocket connections are long-lived.
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gatewayService.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("draft gateway exited")
		os.Exit(1)
	}
	log.Info().Msg("draft gateway shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
