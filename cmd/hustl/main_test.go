package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/hustlcampus/hustl/config"
	"github.com/hustlcampus/hustl/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// useMemoryDB points the CLI at a named in-memory sqlite database. The
// returned handle keeps it alive between commands that close their pool.
func useMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on"
	config.Set("DB_DRIVER", "sqlite")
	config.Set("DATABASE_DSN", dsn)

	keep, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	sqlDB, err := keep.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return keep
}

func TestBootSchemaMigratesFreshDatabase(t *testing.T) {
	keep := useMemoryDB(t)

	var out bytes.Buffer
	require.NoError(t, bootSchema(&out))
	require.NoError(t, database.Close())

	for _, table := range []string{"users", "market_items", "lost_items", "claim_requests"} {
		require.True(t, keep.Migrator().HasTable(table), table)
	}
	require.Contains(t, out.String(), "migrated:  20240101000003_create_claim_requests")

	out.Reset()
	require.NoError(t, bootSchema(&out))
	require.NoError(t, database.Close())
	require.Equal(t, "Nothing to migrate.\n", out.String())
}

func TestMigrateCommandReportsNothingOnce(t *testing.T) {
	useMemoryDB(t)

	run := func() string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs([]string{"migrate"})
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	require.Contains(t, run(), "migrated:")
	require.Equal(t, 1, strings.Count(run(), "Nothing to migrate."))
}
