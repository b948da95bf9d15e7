package mcdb

import (
	"time"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	SqliteInMemoryDSN = config.DefaultSqlitePath
)

// Dialector picks the gorm driver from DB_DRIVER. SQLite databases live in
// DB_SQLITE_PATH, defaulting to an in-memory database.
func Dialector() (gorm.Dialector, error) {
	switch driver := config.DBDriver(); driver {
	case DriverMySQL:
		return mysql.Open(config.MySQLDSN()), nil
	case DriverSQLite:
		return sqlite.Open(config.SqlitePath()), nil
	default:
		return nil, errors.Errorf("unknown %s '%s'", config.KeyDBDriver, driver)
	}
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it isn't successful
// after that number of retries then it will call log.Fatalf(), which will cause the server to exit.
// Between retry attempts it will sleep for 3 seconds.
func MustConnectToDB() *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	dialector, err := Dialector()
	if err != nil {
		log.Fatalf("Unable to connect to db: %s", err)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	retryCount := 1
	for {
		db, err = gorm.Open(dialector, gormConfig)
		switch {
		case err == nil:
			if dialector.Name() == DriverSQLite {
				// A single connection keeps an in-memory database alive and
				// avoids sqlite table locks.
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.SetMaxOpenConns(1)
				}
			}
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", dialector.Name(), err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}
