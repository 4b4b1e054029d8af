package db

import (
	"context"

	"github.com/kosatnkn/txservices/engine"
)

// AdapterInterface is implemented by all database adapters.
type AdapterInterface interface {

	// Ping checks wether the database is accessible.
	Ping() error

	// Query runs a query and return the result.
	Query(ctx context.Context, query string, parameters map[string]interface{}) ([]map[string]interface{}, error)

	// QueryBulk runs a query for every set of parameters and returns the combined result.
	QueryBulk(ctx context.Context, query string, parameters []map[string]interface{}) ([]map[string]interface{}, error)

	// Engine returns the transaction engine bound to the database.
	Engine() *engine.Engine

	// Destruct will close the database adapter releasing all resources.
	Destruct() error
}
