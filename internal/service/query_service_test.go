package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/store"
	"github.com/jakeswenson/bear-query/internal/utils"
)

func newTestService(t *testing.T) QueryService {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "notes.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE ZSFNOTE (
			Z_PK INTEGER PRIMARY KEY, ZUNIQUEIDENTIFIER TEXT, ZTITLE TEXT, ZTEXT TEXT,
			ZMODIFICATIONDATE REAL, ZCREATIONDATE REAL,
			ZPINNED INTEGER, ZTRASHED INTEGER, ZARCHIVED INTEGER
		)`,
		`CREATE TABLE ZSFNOTETAG (Z_PK INTEGER PRIMARY KEY, ZTITLE TEXT, ZMODIFICATIONDATE REAL)`,
		`CREATE TABLE Z_5TAGS (Z_5NOTES INTEGER, Z_13TAGS INTEGER)`,
		`CREATE TABLE ZSFNOTEBACKLINK (Z_PK INTEGER PRIMARY KEY, ZLINKEDBY INTEGER, ZLINKINGTO INTEGER)`,
		`INSERT INTO ZSFNOTE VALUES (1, 'u1', 'First Note', 'hello', 0, 0, 0, 0, 0)`,
		`INSERT INTO ZSFNOTE VALUES (2, 'u2', 'Second Note', NULL, 86400, 86400, 1, 0, 0)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	st, err := store.New(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewQueryService(st, 0)
}

func TestExecuteQuery(t *testing.T) {
	svc := newTestService(t)

	req := &model.QueryRequest{SQL: "SELECT id, title, content FROM entities ORDER BY id"}
	req.ApplyDefaults()

	resp, err := svc.ExecuteQuery(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.Success)

	assert.Equal(t, 2, resp.Metadata.RowCount)
	assert.Equal(t, 3, resp.Metadata.ColumnCount)
	require.Len(t, resp.Columns, 3)

	assert.Equal(t, "id", resp.Columns[0].Name)
	assert.Equal(t, "integer", resp.Columns[0].Type)
	assert.Equal(t, "text", resp.Columns[1].Type)

	// The second note has no content, so that column reports nullable.
	assert.False(t, resp.Columns[1].Nullable)
	assert.True(t, resp.Columns[2].Nullable)

	assert.Equal(t, "First Note", resp.Rows[0][1])
	assert.Nil(t, resp.Rows[1][2])
}

func TestExecuteQueryRejected(t *testing.T) {
	svc := newTestService(t)

	req := &model.QueryRequest{SQL: "DELETE FROM entities"}
	resp, err := svc.ExecuteQuery(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, utils.ErrCodeQueryRejected, resp.Error.Code)
	assert.Equal(t, "DELETE FROM entities", resp.Error.SQL)
}

func TestExecuteQueryBadSQL(t *testing.T) {
	svc := newTestService(t)

	req := &model.QueryRequest{SQL: "SELECT nope FROM missing_table"}
	resp, err := svc.ExecuteQuery(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, utils.ErrCodeQueryFailed, resp.Error.Code)
}

func TestValidateQuery(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.ValidateQuery(context.Background(),
		&model.QueryRequest{SQL: "SELECT 1"}))
	assert.Error(t, svc.ValidateQuery(context.Background(),
		&model.QueryRequest{SQL: "DROP TABLE entities"}))
}

func TestGetQueryStats(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ExecuteQuery(context.Background(), &model.QueryRequest{SQL: "SELECT 1"})
	require.NoError(t, err)
	_, err = svc.ExecuteQuery(context.Background(), &model.QueryRequest{SQL: "DELETE FROM entities"})
	require.NoError(t, err)

	stats, err := svc.GetQueryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQueries)
	assert.Equal(t, int64(1), stats.SuccessfulQueries)
	assert.Equal(t, int64(1), stats.FailedQueries)
	assert.False(t, stats.LastQueryTime.IsZero())
}
