// Package dbtest opens migrated sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/db"
)

// Open returns a fresh migrated database in t.TempDir. A single connection
// serializes writers the way the sqlite driver expects.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	gdb, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}
