package config

import "fmt"

// Environment keys read by mccrud.
const (
	KeyDBDriver     = "DB_DRIVER"
	KeyDBUsername   = "DB_USERNAME"
	KeyDBPassword   = "DB_PASSWORD"
	KeyDBHost       = "DB_HOST"
	KeyDBPort       = "DB_PORT"
	KeyDBDatabase   = "DB_DATABASE"
	KeyDBSqlitePath = "DB_SQLITE_PATH"

	KeyCrudPort    = "CRUD_PORT"
	KeyCrudAPIKeys = "CRUD_API_KEYS"
	KeyCrudTxRetry = "CRUD_TX_RETRY"
	KeyCrudJSDir   = "CRUD_JS_DIR"
	KeyCrudLogDir  = "CRUD_LOG_DIR"
	KeyCrudEnvFile = "CRUD_ENV_FILE"
	KeyCrudTest    = "CRUD_TEST"

	// Read by the mccrud client.
	KeyCrudURL    = "CRUD_URL"
	KeyCrudAPIKey = "CRUD_API_KEY"

	KeyLogLevel = "LOG_LEVEL"
)

const (
	DefaultCrudPort = 1360
	DefaultEnvFile  = ".env"
	DefaultDBDriver = "mysql"
	DefaultDBPort   = "3306"
	DefaultLogLevel = "info"

	// In-memory sqlite, used when DB_SQLITE_PATH is not set.
	DefaultSqlitePath = "file::memory:"

	MinTxRetry = 3
)

func DBDriver() string {
	return GetKeyWithDefault(KeyDBDriver, DefaultDBDriver)
}

func SqlitePath() string {
	return GetKeyWithDefault(KeyDBSqlitePath, DefaultSqlitePath)
}

// MySQLDSN builds the mysql data source name from the DB_* keys.
func MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetKey(KeyDBUsername),
		GetKey(KeyDBPassword),
		GetKey(KeyDBHost),
		GetKeyWithDefault(KeyDBPort, DefaultDBPort),
		GetKey(KeyDBDatabase))
}

func CrudPort() int {
	return GetIntKeyWithDefault(KeyCrudPort, DefaultCrudPort)
}

// CrudAPIKeys is the comma separated list of static api keys. Empty disables
// api key auth.
func CrudAPIKeys() string {
	return GetKey(KeyCrudAPIKeys)
}

func JSDir() string {
	return GetKey(KeyCrudJSDir)
}

// LogDir is the only directory file log outputs may be written to. Empty
// allows stdout and stderr only.
func LogDir() string {
	return GetKey(KeyCrudLogDir)
}

func LogLevel() string {
	return GetKeyWithDefault(KeyLogLevel, DefaultLogLevel)
}

// TxRetry is the number of attempts made for a write transaction, never less
// than MinTxRetry.
func TxRetry() int {
	if n := GetIntKeyWithDefault(KeyCrudTxRetry, MinTxRetry); n > MinTxRetry {
		return n
	}

	return MinTxRetry
}
