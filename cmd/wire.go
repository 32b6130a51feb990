package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/punchclock/internal/adapters/render/board"
	jsonrepo "github.com/bnema/punchclock/internal/adapters/repo/json"
	sqliterepo "github.com/bnema/punchclock/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/punchclock/internal/adapters/repo/toml"
	chainstore "github.com/bnema/punchclock/internal/adapters/secrets/chain"
	filestore "github.com/bnema/punchclock/internal/adapters/secrets/file"
	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/config"
	"github.com/bnema/punchclock/internal/logging"
	"github.com/bnema/punchclock/internal/ports"
	"go.uber.org/zap"
)

type app struct {
	config        *config.Config
	logger        *zap.Logger
	service       *application.Service
	secretStore   ports.SecretStore
	boardRenderer func(application.Board) (string, error)
	receiptRender func(application.EndResult) (string, error)
	closers       []func() error
}

func wireApp() (*app, error) {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	a := &app{
		config:        cfg,
		logger:        logger,
		boardRenderer: board.Render,
		receiptRender: board.RenderReceipt,
	}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	store, closeStore, err := openStateStore(cfg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("wire state store: %w", err)
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	files, err := filestore.NewStoreFromConfig(cfg.Viper())
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("wire secret store: %w", err)
	}
	secretStore, err := chainstore.NewEnvFirstWithFileFallback(files)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	a.secretStore = secretStore
	a.service = application.NewService(store, ports.SystemClock{}, logger)

	logger.Debug("application wired",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("secrets_dir", files.Root()),
	)

	return a, nil
}

func openStateStore(cfg *config.Config) (ports.StateStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverJSON:
		store, err := jsonrepo.NewStore(cfg.Viper())
		return store, nil, err
	case config.DriverTOML:
		repo, err := tomlrepo.NewRepository(cfg.Viper())
		return repo, nil, err
	case config.DriverSQLite:
		store, err := sqliterepo.NewStore(cfg.Viper())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases resources in reverse wiring order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
