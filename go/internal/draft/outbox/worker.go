package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Config struct {
	FallbackInterval time.Duration // How often to sweep for missed events
	BatchSize        int           // Max events claimed per sweep
	MaxRetries       int
	RetryDelay       time.Duration
}

func DefaultConfig() Config {
	return Config{
		FallbackInterval: 30 * time.Second,
		BatchSize:        100,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
	}
}

// Option customises a Worker.
type Option func(*Worker)

func WithClock(c clockwork.Clock) Option {
	return func(w *Worker) { w.clock = c }
}

func WithMetrics(m MetricsCollector) Option {
	return func(w *Worker) { w.metrics = m }
}

// Worker relays outbox rows to the publisher. It reacts to notifications
// carrying a row id and sweeps all unsent rows on a fallback interval.
type Worker struct {
	store     TxStore
	publisher Publisher
	metrics   MetricsCollector
	clock     clockwork.Clock
	config    Config

	mu        sync.Mutex
	running   bool
	processed uint64
	lastEvent time.Time
}

func NewWorker(store TxStore, publisher Publisher, cfg Config, opts ...Option) *Worker {
	w := &Worker{
		store:     store,
		publisher: publisher,
		metrics:   NoOpMetricsCollector{},
		clock:     clockwork.NewRealClock(),
		config:    cfg,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run sweeps once, then serves notifications until ctx is done. An empty
// notification (the listener reconnected) triggers a sweep.
func (w *Worker) Run(ctx context.Context, notifications <-chan string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	log.Info().
		Dur("fallback_interval", w.config.FallbackInterval).
		Int("batch_size", w.config.BatchSize).
		Msg("outbox worker started")

	w.sweep(ctx)

	ticker := w.clock.NewTicker(w.config.FallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox worker shutting down")
			return nil
		case extra, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			if extra == "" {
				w.sweep(ctx)
				continue
			}
			if err := w.HandleNotification(ctx, extra); err != nil {
				log.Error().Err(err).Str("event_id", extra).Msg("failed to handle notification")
			}
		case <-ticker.Chan():
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	if _, err := w.ProcessUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events")
	}
}

// HandleNotification relays the row named by extra. A row that is gone,
// already sent, or claimed by a concurrent sweep is not an error.
func (w *Worker) HandleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	err = w.store.WithTx(ctx, func(tx Store) error {
		event, err := tx.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		if err := w.publishWithRetry(ctx, *event); err != nil {
			return err
		}
		return tx.MarkSent(ctx, []uuid.UUID{id}, w.clock.Now())
	})
	if errors.Is(err, ErrEventNotFound) {
		log.Debug().Str("event_id", extra).Msg("outbox event already relayed")
		return nil
	}
	if err != nil {
		return err
	}

	w.recordSent(1)
	log.Info().Str("event_id", extra).Msg("published and marked event as sent")
	return nil
}

// ProcessUnsent claims one batch of unsent rows and relays them in order.
// Rows that fail to publish stay unsent for the next sweep.
func (w *Worker) ProcessUnsent(ctx context.Context) (int, error) {
	start := w.clock.Now()
	var sent []uuid.UUID
	var claimed int

	err := w.store.WithTx(ctx, func(tx Store) error {
		events, err := tx.FetchUnsent(ctx, w.config.BatchSize)
		if err != nil {
			return err
		}
		claimed = len(events)

		for _, event := range events {
			if err := w.publishWithRetry(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_id", event.ID.String()).
					Str("event_type", event.EventType).
					Msg("failed to publish event")
				if ctx.Err() != nil {
					break
				}
				continue
			}
			sent = append(sent, event.ID)
		}
		return tx.MarkSent(ctx, sent, w.clock.Now())
	})
	if err != nil {
		return 0, err
	}

	w.metrics.RecordBatchProcessed(claimed, w.clock.Since(start))
	if pending, err := w.store.CountPending(ctx); err == nil {
		w.metrics.RecordOutboxLag(pending)
	}
	if len(sent) > 0 {
		w.recordSent(len(sent))
		log.Info().
			Int("claimed", claimed).
			Int("sent", len(sent)).
			Msg("processed outbox events")
	}
	return len(sent), nil
}

// publishWithRetry attempts to publish an outbox event with a linear backoff.
func (w *Worker) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		err := w.publisher.Publish(ctx, event)
		w.metrics.RecordPublishAttempt(event.EventType, attempt+1, err == nil)
		if err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}

func (w *Worker) recordSent(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processed += uint64(n)
	w.lastEvent = w.clock.Now()
}

// Stats reports how many events were sent and when the last one was.
func (w *Worker) Stats() (processed uint64, lastEvent time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed, w.lastEvent
}

// Running reports whether Run is active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
