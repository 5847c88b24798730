package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory sqlite database with each schema attached
// as its own in-memory database, so "schema.table" names resolve. The pool is
// pinned to one connection because every :memory: connection is distinct.
func newSQLiteDB(t *testing.T, schemas ...string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, s := range schemas {
		require.NoError(t, db.Exec("ATTACH DATABASE ':memory:' AS "+s).Error)
	}
	return db
}

func execAll(t *testing.T, db *gorm.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		require.NoError(t, db.Exec(s).Error)
	}
}
