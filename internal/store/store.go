// Package store is the read-only adapter over the note application's
// database. Construction discovers the variable schema once and generates
// the normalizing view definitions; afterwards the store is immutable and
// safe for concurrent readers.
package store

import (
	"context"
	"database/sql"

	"github.com/jakeswenson/bear-query/internal/database"
	"github.com/jakeswenson/bear-query/internal/schema"
	"github.com/jakeswenson/bear-query/internal/table"
)

// Store holds the discovered schema metadata, the generated view block and
// the gateway every query goes through.
type Store struct {
	db       *sql.DB
	metadata schema.Metadata
	gateway  *database.Gateway
}

// New discovers the variable schema on the given connection and builds the
// adapter. Discovery failure is fatal: no partial or degraded store is
// produced.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	metadata, err := schema.Discover(ctx, database.NewCatalog(db))
	if err != nil {
		return nil, err
	}

	views := schema.ViewDefinitions(metadata)

	return &Store{
		db:       db,
		metadata: metadata,
		gateway:  database.NewGateway(db, views),
	}, nil
}

// Metadata returns the schema facts discovered at construction.
func (s *Store) Metadata() schema.Metadata {
	return s.metadata
}

// Gateway returns the query gateway, for callers issuing raw reads.
func (s *Store) Gateway() *database.Gateway {
	return s.gateway
}

// Query executes an arbitrary read query expressed against the stable
// relation names and materializes the result into a typed Table.
func (s *Store) Query(ctx context.Context, query string, args ...interface{}) (*table.Table, error) {
	return table.ExecuteToTable(ctx, s.gateway, query, args...)
}

// Ping verifies the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats returns the connection pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
