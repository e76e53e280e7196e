package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCatalogTables(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE ZSFNOTE (Z_PK INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE Z_5TAGS (Z_5NOTES INTEGER, Z_13TAGS INTEGER)`)
	require.NoError(t, err)

	catalog := NewCatalog(db)
	tables, err := catalog.Tables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, tables, "ZSFNOTE")
	assert.Contains(t, tables, "Z_5TAGS")
}

func TestCatalogColumns(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE Z_5TAGS (Z_5NOTES INTEGER, Z_13TAGS INTEGER)`)
	require.NoError(t, err)

	catalog := NewCatalog(db)
	columns, err := catalog.Columns(context.Background(), "Z_5TAGS")
	require.NoError(t, err)
	assert.Equal(t, []string{"Z_5NOTES", "Z_13TAGS"}, columns)
}

func TestCatalogColumnsMissingTable(t *testing.T) {
	db := newTestDB(t)

	catalog := NewCatalog(db)
	columns, err := catalog.Columns(context.Background(), "NO_SUCH_TABLE")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestGatewayPrependsViews(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE physical (v INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO physical VALUES (7)`)
	require.NoError(t, err)

	gw := NewGateway(db, "WITH stable AS (SELECT v FROM physical)\n")

	rows, err := gw.Query(context.Background(), "SELECT v FROM stable")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var v int64
	require.NoError(t, rows.Scan(&v))
	assert.Equal(t, int64(7), v)
}

func TestGatewayQueryError(t *testing.T) {
	db := newTestDB(t)

	gw := NewGateway(db, "")
	_, err := gw.Query(context.Background(), "SELECT * FROM missing")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "SELECT * FROM missing", queryErr.Query)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestGatewayQueryMalformedSQL(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE notes (id INTEGER)`)
	require.NoError(t, err)

	gw := NewGateway(db, "")

	// The engine compiles lazily, so a pure syntax error must still come
	// back from Query as a *QueryError rather than a nil error.
	_, err = gw.Query(context.Background(), "SELECT FROM nothing")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "SELECT FROM nothing", queryErr.Query)
}

func TestOpenConfigReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.sqlite")

	// Seed with a writable connection first; mode=ro cannot create files.
	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = seed.Exec(`CREATE TABLE x (v INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	// Writes must be refused at the connection level.
	_, err = db.Exec(`INSERT INTO x VALUES (1)`)
	assert.Error(t, err)
}
