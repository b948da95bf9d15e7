package tutil

import (
	"strings"
	"testing"

	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IsIntegrationTest is true when CRUD_TEST=integration, tests then may use
// the DB_* mysql database.
func IsIntegrationTest() bool {
	return strings.ToLower(config.GetKey(config.KeyCrudTest)) == "integration"
}

// NewTestDB opens a private in-memory sqlite database with the models migrated.
// The database is closed when the test ends.
func NewTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(mcdb.SqliteInMemoryDSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// Set the sqlite db to 1 connection. Every connection to :memory: is a
	// new database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewMySQLTestDB connects to the DB_* mysql database, skipping the test
// unless IsIntegrationTest. The tables of models are recreated before the
// test and dropped after it, so models must be listed parents first.
func NewMySQLTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	if !IsIntegrationTest() {
		t.Skipf("set %s=integration to run against mysql", config.KeyCrudTest)
	}

	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	children := make([]any, len(models))
	for i, m := range models {
		children[len(models)-1-i] = m
	}

	require.NoError(t, db.Migrator().DropTable(children...))
	require.NoError(t, db.AutoMigrate(models...))

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(children...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
