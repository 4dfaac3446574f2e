package gateway

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Service is the draft gateway: a JetStream consumer feeding a websocket
// connection manager, plus the state read endpoints.
type Service struct {
	connectionManager *ConnectionManager
	handler           *Handler
	eventConsumer     *EventConsumer
}

// Config holds configuration for the draft gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConsumerConfig
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
	}
}

func NewService(ctx context.Context, config Config, nc *nats.Conn, provider StateProvider) (*Service, error) {
	connectionManager := NewConnectionManager(config.ConnectionConfig)

	eventConsumer, err := NewEventConsumer(ctx, connectionManager, nc, config.JetStreamConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	return &Service{
		connectionManager: connectionManager,
		handler:           NewHandler(connectionManager, provider),
		eventConsumer:     eventConsumer,
	}, nil
}

// Run blocks until ctx is done or a component fails.
func (s *Service) Run(ctx context.Context) error {
	log.Info().Msg("starting draft gateway service")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.connectionManager.Start(ctx) })
	g.Go(func() error { return s.eventConsumer.Start(ctx) })
	err := g.Wait()

	log.Info().Msg("draft gateway service stopped")
	return err
}

// Routes mounts the websocket and state endpoints.
func (s *Service) Routes(r chi.Router) {
	s.handler.Routes(r)
}

// Stats returns statistics about open connections.
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}
