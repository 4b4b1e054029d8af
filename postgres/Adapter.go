package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kosatnkn/txservices/db"
	"github.com/kosatnkn/txservices/engine"
)

// Dialect is the SQL dialect of Postgres.
//
// lib/pq does not report last insert ids. Use a RETURNING clause instead.
var Dialect = engine.Dialect{
	Name:         "postgres",
	Placeholder:  engine.DollarPlaceholder,
	LastInsertID: false,
}

// Adapter is used to communicate with a Postgres database.
type Adapter struct {
	cfg    Config
	engine *engine.Engine
}

// NewAdapter creates a new Postgres adapter instance.
func NewAdapter(cfg Config, logger *zap.Logger, opts ...engine.Option) (db.AdapterInterface, error) {

	connector, err := pq.NewConnector(connString(cfg))
	if err != nil {
		return nil, err
	}

	pool := sql.OpenDB(connector)

	// pool configurations
	pool.SetMaxOpenConns(cfg.PoolSize)
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
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

// Destruct will close the Postgres adapter releasing all resources.
func (a *Adapter) Destruct() error {
	return a.engine.Close()
}

// connString builds a lib/pq key/value connection string.
func connString(cfg Config) string {

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, port, cfg.Database, cfg.User, quote(cfg.Password), sslMode)
}

// quote escapes a connection string value so that spaces and quotes survive.
func quote(v string) string {

	if v == "" {
		return "''"
	}

	out := make([]rune, 0, len(v)+2)
	out = append(out, '\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}

	return string(append(out, '\''))
}
