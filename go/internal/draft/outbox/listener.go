package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/draft/events"
)

type ListenerConfig struct {
	DatabaseURL          string // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel        string // Channel name to LISTEN on
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
	PingInterval         time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		NotifyChannel:        events.NotifyChannel,
		MinReconnectInterval: 10 * time.Second,
		MaxReconnectInterval: time.Minute,
		PingInterval:         90 * time.Second,
	}
}

// Listener turns Postgres notifications into a channel of outbox row ids.
type Listener struct {
	listener *pq.Listener
	cfg      ListenerConfig
	clock    clockwork.Clock
}

func NewListener(cfg ListenerConfig, clock clockwork.Clock) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		cfg.MinReconnectInterval,
		cfg.MaxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Int("event", int(ev)).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for notifications")

	return &Listener{listener: l, cfg: cfg, clock: clock}, nil
}

// Notifications forwards each notification payload until ctx is done. A
// lost connection is reported as an empty string so the consumer can
// sweep for anything it missed.
func (l *Listener) Notifications(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		ping := l.clock.NewTicker(l.cfg.PingInterval)
		defer ping.Stop()

		for {
			var extra string
			select {
			case <-ctx.Done():
				return
			case note := <-l.listener.Notify:
				// nil notification means the connection was re-established
				if note != nil {
					extra = note.Extra
				}
			case <-ping.Chan():
				if err := l.listener.Ping(); err != nil {
					log.Error().Err(err).Msg("failed to ping listener")
				}
				continue
			}

			select {
			case out <- extra:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (l *Listener) Close() error {
	return l.listener.Close()
}
