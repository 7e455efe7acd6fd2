package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/warroomlabs/warroom/internal/catalog"
	"github.com/warroomlabs/warroom/internal/dbconfig"
	"github.com/warroomlabs/warroom/internal/draft"
	"github.com/warroomlabs/warroom/internal/draft/audit"
	"github.com/warroomlabs/warroom/internal/draft/gateway"
	"github.com/warroomlabs/warroom/internal/draft/orchestrator"
	"github.com/warroomlabs/warroom/internal/draft/outbox"
	"github.com/warroomlabs/warroom/internal/draft/store"
)

// Services holds the wired application graph.
type Services struct {
	Catalog      *catalog.App
	DraftService *draft.Service
	Connections  *gateway.ConnectionManager
	Gateway      *gateway.Handler
	WebSocket    *gateway.WebSocketHandler
	Orchestrator *orchestrator.Orchestrator

	OutboxWorker   *outbox.Worker
	OutboxListener *outbox.Listener
}

// setupServices wires the dependency chain:
// storage → repositories → apps → service → gateway.
func setupServices(ctx context.Context, config *Config) (*Services, func(), error) {
	clock := clockwork.NewRealClock()

	var (
		snapshots   store.Store
		catalogRepo catalog.Repository
		database    *sql.DB
		cleanup     = func() {}
	)

	switch config.Storage.Driver {
	case "postgres":
		dbCfg := dbconfig.NewConfigFromEnv()

		pool, err := setupPool(ctx, dbCfg)
		if err != nil {
			return nil, nil, err
		}
		db, err := setupDatabase(dbCfg)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		snapshots = store.NewPostgresStore(pool)
		catalogRepo = catalog.NewPostgresRepository(pool)
		database = db
		cleanup = func() {
			db.Close()
			pool.Close()
		}
	case "memory", "":
		snapshots = store.NewMemoryStore()
		catalogRepo = catalog.NewMemoryRepository()
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	catalogApp := catalog.NewApp(catalogRepo, log.With().Str("component", "catalog").Logger())
	if config.Catalog.SeedFile != "" {
		if err := catalogApp.SeedFromFile(ctx, config.Catalog.SeedFile); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Outbox eventing only runs with a relational store behind it.
	var (
		eventSink      draft.EventSink
		outboxWorker   *outbox.Worker
		outboxListener *outbox.Listener
	)
	if database != nil {
		repo := outbox.NewRepository(database)
		eventSink = repo

		publisher, err := setupPublisher(config)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		workerCfg := outbox.DefaultConfig()
		if config.Outbox.PollIntervalSec > 0 {
			workerCfg.PollInterval = time.Duration(config.Outbox.PollIntervalSec) * time.Second
		}
		if config.Outbox.BatchSize > 0 {
			workerCfg.BatchSize = config.Outbox.BatchSize
		}
		outboxWorker = outbox.NewWorker(database, publisher, workerCfg,
			slog.New(slog.NewJSONHandler(os.Stdout, nil)))

		listenerCfg := outbox.DefaultListenerConfig()
		listenerCfg.DatabaseURL = dbconfig.NewConfigFromEnv().DSN()
		listenerCfg.BatchSize = workerCfg.BatchSize
		outboxListener, err = outbox.NewListener(database, publisher, listenerCfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	var auditSink audit.Sink = audit.NewLogSink(log.With().Str("component", "audit").Logger())
	if eventSink != nil {
		auditSink = audit.NewMultiSink(auditSink, audit.NewOutboxSink(eventSink))
	}

	draftApp := draft.NewApp(snapshots, catalogApp, eventSink, auditSink, clock,
		log.With().Str("component", "draft").Logger())
	draftService := draft.NewService(draftApp)

	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	draftApp.SetBroadcaster(connections)

	orch := orchestrator.NewOrchestrator(draftApp, eventSink, clock)
	draftApp.SetScheduler(orch)

	return &Services{
		Catalog:        catalogApp,
		DraftService:   draftService,
		Connections:    connections,
		Gateway:        gateway.NewHandler(draftService, catalogApp),
		WebSocket:      gateway.NewWebSocketHandler(connections),
		Orchestrator:   orch,
		OutboxWorker:   outboxWorker,
		OutboxListener: outboxListener,
	}, cleanup, nil
}

func setupPublisher(config *Config) (outbox.EventPublisher, error) {
	if config.Events.NATSURL == "" {
		log.Warn().Msg("no NATS URL configured, outbox events go to a mock publisher")
		return outbox.NewMockPublisher(), nil
	}
	conn, err := nats.Connect(config.Events.NATSURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return outbox.NewNATSPublisher(conn, config.Events.SubjectPrefix,
		slog.New(slog.NewJSONHandler(os.Stdout, nil))), nil
}
