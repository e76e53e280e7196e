package database

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryError reports a failure to compile or execute a query against the
// stable relation surface. The engine's error is wrapped unchanged.
type QueryError struct {
	Query string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Gateway wraps a connection together with the generated view-definition
// block. Every query run through it sees the stable relations (entities,
// labels, entity_labels, entity_links) instead of the versioned physical
// tables. The view text is computed once at store construction and reused
// unchanged for every query.
type Gateway struct {
	db    *sql.DB
	views string
}

// NewGateway creates a Gateway over an open connection and a view block.
func NewGateway(db *sql.DB, views string) *Gateway {
	return &Gateway{db: db, views: views}
}

// Query prepends the view definitions to the caller's query text and runs
// the combined statement. The engine compiles statements lazily, so syntax
// errors in the combined text surface here rather than at prepare time;
// both compile and execution failures come back as *QueryError. The caller
// owns the returned rows.
func (g *Gateway) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := g.db.QueryContext(ctx, g.views+query, args...)
	if err != nil {
		return nil, &QueryError{Query: query, Cause: err}
	}
	return rows, nil
}

// Views returns the view-definition block, for diagnostics.
func (g *Gateway) Views() string {
	return g.views
}
