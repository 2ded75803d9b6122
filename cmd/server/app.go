package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/mnemo-api/internal/config"
	"github.com/phrazzld/mnemo-api/internal/deck"
	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/platform/postgres"
	"github.com/phrazzld/mnemo-api/internal/platform/sqlite"
	"github.com/phrazzld/mnemo-api/internal/session"
	"github.com/phrazzld/mnemo-api/internal/srs"
	"github.com/phrazzld/mnemo-api/internal/store"
)

// application holds the composed dependencies of the running server.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	deck       *domain.Deck
	kv         store.KVStore
	kvCloser   io.Closer
	srsManager *srs.Manager
	generator  *session.Generator
	dateFacts  []domain.DateFact
}

// newApplication wires the engine together: validate the embedded deck,
// open the configured snapshot store, restore scheduling state, and build
// the session generator. The validator runs before anything else touches
// the deck; a pack that fails validation never reaches the scheduler.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	d, err := deck.Default(logger)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}

	facts, err := deck.DefaultDateFacts()
	if err != nil {
		return nil, fmt.Errorf("load date facts: %w", err)
	}

	kv, closer, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	mgr := srs.NewManager(d, kv, logger)
	if err := mgr.Load(ctx); err != nil {
		// Load recovers locally; this path is unreachable but kept for
		// interface symmetry with Save.
		logger.Warn("snapshot load reported an error", slog.String("error", err.Error()))
	}

	sessCfg := session.DefaultConfig()
	sessCfg.SessionSize = cfg.Session.Size
	sessCfg.NewCardRatio = cfg.Session.NewCardRatio
	sessCfg.PiProbability = cfg.Session.PiProbability
	sessCfg.DateProbability = cfg.Session.DateProbability
	sessCfg.MaxPiDrills = cfg.Session.MaxPiDrills
	sessCfg.MaxDateDrills = cfg.Session.MaxDateDrills

	gen := session.NewGenerator(d, mgr, sessCfg, logger)

	return &application{
		config:     cfg,
		logger:     logger,
		deck:       d,
		kv:         kv,
		kvCloser:   closer,
		srsManager: mgr,
		generator:  gen,
		dateFacts:  facts,
	}, nil
}

// openStore constructs the snapshot store selected by configuration.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.KVStore, io.Closer, error) {
	switch cfg.Driver {
	case "postgres":
		s, err := postgres.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		logger.Warn("using in-memory snapshot store; progress will not survive restart")
		return store.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// shutdown saves the scheduling snapshot and releases resources. A failed
// save is logged and not retried; the process is exiting either way.
func (app *application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.srsManager.Save(ctx); err != nil {
		app.logger.Error("failed to save snapshot on shutdown", slog.String("error", err.Error()))
	}
	if app.kvCloser != nil {
		if err := app.kvCloser.Close(); err != nil {
			app.logger.Error("failed to close snapshot store", slog.String("error", err.Error()))
		}
	}
}

// newServer builds the HTTP server around the application's router.
func (app *application) newServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
