package mysql

import (
	"context"
	"database/sql"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/kosatnkn/txservices/db"
	"github.com/kosatnkn/txservices/engine"
)

// Dialect is the SQL dialect of MySQL/MariaDB.
var Dialect = engine.Dialect{
	Name:         "mysql",
	Placeholder:  engine.QuestionPlaceholder,
	LastInsertID: true,
}

// Adapter is used to communicate with a MySQL/MariaDB database.
type Adapter struct {
	cfg    Config
	engine *engine.Engine
}

// NewAdapter creates a new MySQL adapter instance.
func NewAdapter(cfg Config, logger *zap.Logger, opts ...engine.Option) (db.AdapterInterface, error) {

	dc := driver.NewConfig()
	dc.Net = "tcp"
	dc.Addr = fmtAddr(cfg.Host, cfg.Port)
	dc.DBName = cfg.Database
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.ParseTime = true

	connector, err := driver.NewConnector(dc)
	if err != nil {
		return nil, err
	}

	pool := sql.OpenDB(connector)

	// pool configurations
	pool.SetMaxOpenConns(cfg.PoolSize)
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		pool.SetConnMaxLifetime(time.Hour)
	}

	a := &Adapter{
		cfg:    cfg,
		engine: engine.New(pool, Dialect, append([]engine.Option{engine.WithLogger(logger)}, opts...)...),
	}

	// check whether the db is accessible
	if cfg.Check {
		return a, a.Ping()
	}

	return a, nil
}

// Ping checks wether the database is accessible.
func (a *Adapter) Ping() error {
	return a.engine.Ping()
}

// Query runs a query and returns the result.
func (a *Adapter) Query(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	return a.engine.Query(ctx, query, params)
}

// QueryBulk runs a query using an array of parameters and return the combined result.
func (a *Adapter) QueryBulk(ctx context.Context, query string, params []map[string]interface{}) ([]map[string]interface{}, error) {
	return a.engine.QueryBulk(ctx, query, params)
}

// Engine returns the transaction engine bound to the database.
func (a *Adapter) Engine() *engine.Engine {
	return a.engine
}

// Destruct will close the MySQL adapter releasing all resources.
func (a *Adapter) Destruct() error {
	return a.engine.Close()
}
