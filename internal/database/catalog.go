package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Catalog enumerates tables and per-table columns of a live connection. It
// only issues read-only catalog queries and satisfies schema.Catalog.
type Catalog struct {
	db *sql.DB
}

// NewCatalog creates a Catalog over an open connection.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Tables lists all table names in catalog order.
func (c *Catalog) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to enumerate tables: %w", err)
	}
	return names, nil
}

// Columns lists the column names of one table in declaration order.
func (c *Catalog) Columns(ctx context.Context, table string) ([]string, error) {
	// PRAGMA table_info does not take bind parameters; double quotes are
	// SQLite identifier quoting.
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate columns of %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info of %s: %w", table, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to enumerate columns of %s: %w", table, err)
	}
	return names, nil
}
