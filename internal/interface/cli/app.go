package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/application/port/output"
	"github.com/YoshitsuguKoike/repairflow/internal/application/usecase/order"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/servicing"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/checkpoint"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/config"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/journal"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/logging"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/metrics"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/persistence/sqlite"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/shop"
)

// app holds the dependencies shared by all commands of one invocation
type app struct {
	fs         afero.Fs
	configPath string
	logLevel   string

	cfg       *config.Config
	logger    *zap.Logger
	store     output.CheckpointStore
	db        *sql.DB
	collector *metrics.Collector
	journal   *journal.Writer
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.LoadFs(a.fs, a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(logging.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger

	switch cfg.Checkpoint.Backend {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Checkpoint.Database)
		if err != nil {
			return err
		}
		a.db = db
		a.store = sqlite.NewCheckpointStore(db)
	default:
		a.store = file.NewCheckpointStore(a.fs, cfg.Checkpoint.Dir)
	}

	a.collector = metrics.NewCollector()
	if cfg.Journal.Path != "" {
		a.journal = journal.NewWriter(a.fs, cfg.Journal.Path)
	}
	logger.Debug("configuration loaded",
		zap.String("granularity", cfg.Checkpoint.Granularity),
		zap.String("format", cfg.Checkpoint.Format),
		zap.String("backend", cfg.Checkpoint.Backend))
	return nil
}

func (a *app) close() error {
	var firstErr error
	if a.collector != nil && a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := a.collector.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return firstErr
}

func (a *app) processOrder() (*order.ProcessOrderUseCase, error) {
	codec, err := checkpoint.NewCodec(
		checkpoint.Granularity(a.cfg.Checkpoint.Granularity),
		checkpoint.Format(a.cfg.Checkpoint.Format),
	)
	if err != nil {
		return nil, err
	}
	exec := repair.NewExecutor(repair.ReferencePolicy{RecoveryLimit: a.cfg.Policy.RecoveryLimit})
	listeners := []repair.Listener{a.collector}
	if a.journal != nil {
		listeners = append(listeners, a.journal)
	}
	return order.NewProcessOrderUseCase(exec, codec, a.store, a.logger, listeners...), nil
}

func (a *app) serviceOrder() *order.ServiceOrderUseCase {
	svc := servicing.NewService(
		shop.NewRoster(a.cfg.Servicing.Technicians, a.logger),
		shop.NewRegister(true),
		servicing.WithPollInterval(a.cfg.Servicing.PollInterval),
		servicing.WithLogger(a.logger),
	)
	return order.NewServiceOrderUseCase(svc, a.collector, a.logger)
}
