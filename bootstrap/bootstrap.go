package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kosatnkn/txservices"
	"github.com/kosatnkn/txservices/config"
	"github.com/kosatnkn/txservices/db"
	"github.com/kosatnkn/txservices/engine"
	"github.com/kosatnkn/txservices/logger"
	"github.com/kosatnkn/txservices/mysql"
	"github.com/kosatnkn/txservices/postgres"
	"github.com/kosatnkn/txservices/sqlite"
)

// Container holds the wired transaction services and the resources behind them.
type Container struct {
	Logger    *zap.Logger
	Adapter   db.AdapterInterface
	Registry  *txservices.Registry
	Services  *txservices.TransactionServices
	TxAdapter *txservices.TxAdapter
	Metrics   *engine.Metrics
}

// Option configures the container.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// WithLogger uses the logger instead of building one from the configuration.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegisterer registers engine metrics with reg instead of the default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// New opens the configured database and wires the transaction services over its engine.
func New(cfg config.Config, opts ...Option) (*Container, error) {

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if log == nil {
		l, err := logger.New(cfg.Log)
		if err != nil {
			return nil, err
		}
		log = l
	}

	var engineOpts []engine.Option
	var metrics *engine.Metrics
	if cfg.Metrics.Enabled {
		m, err := engine.NewMetrics(o.registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
		engineOpts = append(engineOpts, engine.WithMetrics(metrics))
	}

	adapter, err := open(cfg.Database, log, engineOpts...)
	if err != nil {
		return nil, err
	}

	e := adapter.Engine()

	registry := txservices.NewRegistry()
	registry.ProvideUserTransaction(e.UserTransaction())
	registry.ProvideTransactionManager(e.TransactionManager())

	services := txservices.NewTransactionServices(e,
		txservices.WithRegistry(registry),
		txservices.WithLogger(log))

	log.Info("transaction services ready", zap.String("driver", cfg.Database.Driver))

	return &Container{
		Logger:    log,
		Adapter:   adapter,
		Registry:  registry,
		Services:  services,
		TxAdapter: txservices.NewTxAdapter(services.UserTransaction()),
		Metrics:   metrics,
	}, nil
}

// Close releases the cached handle and closes the database.
func (c *Container) Close() error {

	c.Services.Cleanup()
	_ = c.Logger.Sync()

	return c.Adapter.Destruct()
}

func open(cfg config.DatabaseConfig, log *zap.Logger, opts ...engine.Option) (db.AdapterInterface, error) {

	var (
		adapter db.AdapterInterface
		err     error
	)

	switch cfg.Driver {
	case config.DriverMySQL:
		adapter, err = mysql.NewAdapter(cfg.MySQL, log, opts...)
	case config.DriverPostgres:
		adapter, err = postgres.NewAdapter(cfg.Postgres, log, opts...)
	case config.DriverSQLite:
		adapter, err = sqlite.NewAdapter(cfg.SQLite, log, opts...)
	default:
		return nil, fmt.Errorf("bootstrap: unsupported database driver '%s'", cfg.Driver)
	}

	if err != nil {
		if adapter != nil {
			_ = adapter.Destruct()
		}
		return nil, fmt.Errorf("bootstrap: cannot open %s database: %w", cfg.Driver, err)
	}

	return adapter, nil
}
