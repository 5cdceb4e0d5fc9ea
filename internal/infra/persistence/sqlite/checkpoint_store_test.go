package sqlite

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/repairflow/internal/application/port/output"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrator_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	migrator := NewMigrator(db)

	require.NoError(t, migrator.Migrate(ctx))
	require.NoError(t, migrator.Migrate(ctx))

	version, err := migrator.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSplitSQLStatements(t *testing.T) {
	stmts := splitSQLStatements("-- comment\nCREATE TABLE a (x INT);\n\n  -- another\nCREATE INDEX i ON a(x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, stmts)
}

func TestCheckpointStore_AppendLatestHistory(t *testing.T) {
	store := NewCheckpointStore(setupTestDB(t))
	ctx := context.Background()

	states := []string{"New", "Invalid", "Krangled"}
	var ids []string
	for _, state := range states {
		id, err := store.Append(ctx, 1004, state, "yaml", []byte("state: "+state+"\n"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := store.Append(ctx, 7, "New", "json", []byte("{}"))
	require.NoError(t, err)

	latest, err := store.Latest(ctx, 1004)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)
	assert.Equal(t, "Krangled", latest.State)
	assert.Equal(t, "yaml", latest.Format)
	assert.Equal(t, "state: Krangled\n", string(latest.Data))
	assert.Equal(t, uint64(1004), latest.OrderNumber)
	assert.False(t, latest.CreatedAt.IsZero())

	history, err := store.History(ctx, 1004)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, rec := range history {
		assert.Equal(t, ids[i], rec.ID)
		assert.Equal(t, states[i], rec.State)
	}
}

func TestCheckpointStore_NotFound(t *testing.T) {
	store := NewCheckpointStore(setupTestDB(t))

	_, err := store.Latest(context.Background(), 42)
	assert.ErrorIs(t, err, output.ErrCheckpointNotFound)

	history, err := store.History(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCheckpointStore_RejectsUnknownFormat(t *testing.T) {
	store := NewCheckpointStore(setupTestDB(t))

	_, err := store.Append(context.Background(), 1, "New", "xml", []byte("<x/>"))
	assert.Error(t, err)
}

func TestCheckpointStore_OrderNumberRange(t *testing.T) {
	store := NewCheckpointStore(setupTestDB(t))

	_, err := store.Append(context.Background(), math.MaxUint64, "New", "json", []byte("{}"))
	assert.Error(t, err)
}
