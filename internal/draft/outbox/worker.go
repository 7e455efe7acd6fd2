package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Worker drains the outbox table on an interval and relays events to the
// publisher. Delivery to the bus is at-least-once; consumers deduplicate on
// event id.
type Worker struct {
	repo      *Repository
	publisher EventPublisher
	config    Config
	logger    *slog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(db *sql.DB, publisher EventPublisher, cfg Config, logger *slog.Logger) *Worker {
	return &Worker{
		repo:      NewRepository(db),
		publisher: publisher,
		config:    cfg,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("outbox worker started",
		slog.Duration("poll_interval", w.config.PollInterval),
		slog.Int("batch_size", int(w.config.BatchSize)))
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			if err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error("outbox batch failed", slog.Any("error", err))
			}
		}
	}
}

// ProcessBatch publishes one batch of unpublished events, retrying each event
// up to MaxRetries before leaving it for the next poll.
func (w *Worker) ProcessBatch(ctx context.Context) error {
	events, err := w.repo.FetchUnpublished(ctx, w.config.BatchSize)
	if err != nil {
		return err
	}

	for _, ev := range events {
		if err := w.publishWithRetry(ctx, ev); err != nil {
			w.logger.Error("event delivery failed",
				slog.String("event_id", ev.ID.String()),
				slog.String("event_type", ev.EventType),
				slog.Any("error", err))
			continue
		}
		if err := w.repo.MarkPublished(ctx, ev.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) publishWithRetry(ctx context.Context, ev OutboxEvent) error {
	var lastErr error
	for attempt := 1; attempt <= w.config.MaxRetries; attempt++ {
		if lastErr = w.publisher.Publish(ctx, ev); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.config.RetryDelay):
		}
	}
	return lastErr
}
