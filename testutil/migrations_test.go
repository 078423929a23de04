package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campdir/backend/migrations"
	"github.com/campdir/backend/testutil"
)

var schemaTables = []string{"camps", "courses"}

// TestMigrations applies every migration, checks the tables and the
// geospatial index exist, then rolls everything back and checks they are gone.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	// Another package may already have migrated the shared test database.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 2)

	for _, table := range schemaTables {
		assert.True(t, tableExists(t, db, table), "expected table %q after up", table)
	}
	assert.True(t, indexExists(t, db, "camps_location_point_idx"), "expected geospatial index on camps")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range schemaTables {
		assert.False(t, tableExists(t, db, table), "expected table %q to be dropped", table)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

func indexExists(t *testing.T, db *sql.DB, index string) bool {
	t.Helper()
	const q = `SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = $1)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, index).Scan(&exists))
	return exists
}
