package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	// database driver for sqlite
	_ "modernc.org/sqlite"

	"github.com/kosatnkn/txservices/db"
	"github.com/kosatnkn/txservices/engine"
)

// Dialect is the SQL dialect of SQLite.
var Dialect = engine.Dialect{
	Name:         "sqlite",
	Placeholder:  engine.QuestionPlaceholder,
	LastInsertID: true,
}

// Adapter is used to communicate with a SQLite database.
//
// The pool holds a single connection. While a transaction is open, Query and
// QueryBulk called with a context that does not carry it wait until the
// transaction completes. Called from the goroutine that owns the transaction
// they never return, so pass the transaction's context or a context with a
// deadline.
type Adapter struct {
	cfg    Config
	engine *engine.Engine
}

// NewAdapter creates a new SQLite adapter instance.
func NewAdapter(cfg Config, logger *zap.Logger, opts ...engine.Option) (db.AdapterInterface, error) {

	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite-adapter: path is required")
	}

	busy := cfg.BusyTimeoutMS
	if busy == 0 {
		busy = 5000
	}

	pool, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, busy))
	if err != nil {
		return nil, err
	}

	// sqlite has a single writer. queries on the pool wait for an open
	// transaction to complete instead of failing with SQLITE_BUSY.
	pool.SetMaxOpenConns(1)

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

// Destruct will close the SQLite adapter releasing all resources.
func (a *Adapter) Destruct() error {
	return a.engine.Close()
}
