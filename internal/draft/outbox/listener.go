package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        // channel name to LISTEN on
	FallbackInterval time.Duration // poll cadence for missed notifications
	BatchSize        int32
	PingInterval     time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		NotifyChannel:    "draft_outbox_events",
		FallbackInterval: 30 * time.Second,
		BatchSize:        100,
		PingInterval:     90 * time.Second,
	}
}

// Listener drains the outbox on Postgres NOTIFY instead of a fixed poll,
// falling back to a timer so events survive missed notifications.
type Listener struct {
	repo      *Repository
	listener  *pq.Listener
	publisher EventPublisher
	cfg       ListenerConfig
}

func NewListener(db *sql.DB, publisher EventPublisher, cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("outbox listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().Str("channel", cfg.NotifyChannel).Msg("listening for outbox notifications")

	return &Listener{
		repo:      NewRepository(db),
		listener:  l,
		publisher: publisher,
		cfg:       cfg,
	}, nil
}

// Run blocks until ctx is cancelled, draining the outbox on every
// notification, fallback tick, or ping interval.
func (l *Listener) Run(ctx context.Context) error {
	defer l.listener.Close()

	// Drain whatever accumulated before we started listening.
	if err := l.drain(ctx); err != nil {
		log.Error().Err(err).Msg("initial outbox drain failed")
	}

	fallback := time.NewTicker(l.cfg.FallbackInterval)
	defer fallback.Stop()
	ping := time.NewTicker(l.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.listener.Notify:
			if err := l.drain(ctx); err != nil {
				log.Error().Err(err).Msg("outbox drain failed")
			}
		case <-fallback.C:
			if err := l.drain(ctx); err != nil {
				log.Error().Err(err).Msg("fallback outbox drain failed")
			}
		case <-ping.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("outbox listener ping failed")
			}
		}
	}
}

func (l *Listener) drain(ctx context.Context) error {
	events, err := l.repo.FetchUnpublished(ctx, l.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := l.publisher.Publish(ctx, ev); err != nil {
			log.Error().Err(err).
				Str("event_id", ev.ID.String()).
				Str("event_type", ev.EventType).
				Msg("failed to publish outbox event")
			continue
		}
		if err := l.repo.MarkPublished(ctx, ev.ID); err != nil {
			return err
		}
	}
	return nil
}
