package table

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// plainQuerier runs queries directly, with no view prefix.
type plainQuerier struct {
	db *sql.DB
}

func (q plainQuerier) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, query, args...)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func execAll(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestExecuteToTable(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT, pinned INTEGER)`,
		`INSERT INTO notes VALUES (1, 'First Note', 0), (2, 'Second Note', 1)`,
	)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT id, title, pinned FROM notes ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Width())
	assert.Equal(t, 2, result.Height())
	assert.Equal(t, []string{"id", "title", "pinned"}, result.ColumnNames())

	title, ok := result.Column("title")
	require.True(t, ok)
	assert.Equal(t, KindText, title.Kind)
	first, ok := title.Text(0)
	require.True(t, ok)
	assert.Equal(t, "First Note", first)

	id, ok := result.Column("id")
	require.True(t, ok)
	assert.Equal(t, KindInteger, id.Kind)
	second, ok := id.Int(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), second)
}

func TestExecuteToTableEmptyResult(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db, `CREATE TABLE notes (id INTEGER, title TEXT)`)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT id, title FROM notes")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Height())
	assert.Equal(t, 2, result.Width())
	assert.Empty(t, result.Rows())

	// With no rows to infer from, every column takes the text fallback.
	for _, name := range result.ColumnNames() {
		col, ok := result.Column(name)
		require.True(t, ok)
		assert.Equal(t, KindText, col.Kind, "column %q", name)
	}
}

func TestExecuteToTableWidensIntegersToFloat(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db,
		`CREATE TABLE mixed (v)`,
		`INSERT INTO mixed VALUES (1), (2.5), (3)`,
	)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT v FROM mixed ORDER BY rowid")
	require.NoError(t, err)

	col, ok := result.Column("v")
	require.True(t, ok)
	assert.Equal(t, KindFloat, col.Kind)
	for row, want := range []float64{1, 2.5, 3} {
		got, ok := col.Float(row)
		require.True(t, ok, "row %d", row)
		assert.Equal(t, want, got)
	}
}

func TestExecuteToTableDropsMinorityCells(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db,
		`CREATE TABLE mixed (v)`,
		`INSERT INTO mixed VALUES (1), ('stray'), (3)`,
	)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT v FROM mixed ORDER BY rowid")
	require.NoError(t, err)

	// Integer outranks text: the text cell becomes null instead of failing
	// the whole column.
	col, ok := result.Column("v")
	require.True(t, ok)
	assert.Equal(t, KindInteger, col.Kind)
	assert.False(t, col.IsNull(0))
	assert.True(t, col.IsNull(1))
	assert.False(t, col.IsNull(2))

	rows := result.Rows()
	assert.Equal(t, [][]interface{}{{int64(1)}, {nil}, {int64(3)}}, rows)
}

func TestExecuteToTableAllNullColumn(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db,
		`CREATE TABLE empty_vals (v)`,
		`INSERT INTO empty_vals VALUES (NULL), (NULL)`,
	)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT v FROM empty_vals")
	require.NoError(t, err)

	col, ok := result.Column("v")
	require.True(t, ok)
	assert.Equal(t, KindText, col.Kind)
	assert.True(t, col.IsNull(0))
	assert.True(t, col.IsNull(1))
}

func TestExecuteToTableBlob(t *testing.T) {
	db := openTestDB(t)
	execAll(t, db,
		`CREATE TABLE bin (v BLOB)`,
		`INSERT INTO bin VALUES (x'DEADBEEF')`,
	)

	result, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT v FROM bin")
	require.NoError(t, err)

	col, ok := result.Column("v")
	require.True(t, ok)
	assert.Equal(t, KindBlob, col.Kind)
	b, ok := col.Blob(0)
	require.True(t, ok)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, b)
}

func TestExecuteToTableBadSQL(t *testing.T) {
	db := openTestDB(t)

	_, err := ExecuteToTable(context.Background(), plainQuerier{db},
		"SELECT FROM nothing")
	require.Error(t, err)

	// Query failures are the gateway's to report, not tabulization's.
	var tabErr *TabulizeError
	assert.False(t, errors.As(err, &tabErr), "gateway errors must pass through unwrapped")
}

func TestUnifyColumnPriority(t *testing.T) {
	tests := []struct {
		name  string
		cells []cell
		want  Kind
	}{
		{"float beats integer", []cell{{kind: KindInteger, i: 1}, {kind: KindFloat, f: 2}}, KindFloat},
		{"float beats text", []cell{{kind: KindText, s: "x"}, {kind: KindFloat, f: 2}}, KindFloat},
		{"integer beats text", []cell{{kind: KindText, s: "x"}, {kind: KindInteger, i: 1}}, KindInteger},
		{"text beats blob", []cell{{kind: KindBlob, b: []byte{1}}, {kind: KindText, s: "x"}}, KindText},
		{"all null falls back to text", []cell{{kind: KindNull}, {kind: KindNull}}, KindText},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col := unifyColumn("v", tc.cells, len(tc.cells))
			assert.Equal(t, tc.want, col.Kind)
			assert.Equal(t, len(tc.cells), col.Len())
		})
	}
}

func TestCellOf(t *testing.T) {
	c, err := cellOf(nil)
	require.NoError(t, err)
	assert.Equal(t, KindNull, c.kind)

	c, err = cellOf(int64(42))
	require.NoError(t, err)
	assert.Equal(t, KindInteger, c.kind)
	assert.Equal(t, int64(42), c.i)

	c, err = cellOf(true)
	require.NoError(t, err)
	assert.Equal(t, KindInteger, c.kind)
	assert.Equal(t, int64(1), c.i)

	buf := []byte("abc")
	c, err = cellOf(buf)
	require.NoError(t, err)
	buf[0] = 'z' // the cell must hold its own copy
	assert.Equal(t, []byte("abc"), c.b)

	_, err = cellOf(struct{}{})
	require.Error(t, err)
}
