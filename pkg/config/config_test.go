package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func TestMapConfig(t *testing.T) {
	c := NewMapConfig(map[string]string{KeyCrudAPIKeys: "abc", KeyDBHost: ""})

	val, ok := c.Lookup(KeyCrudAPIKeys)
	require.True(t, ok)
	require.Equal(t, "abc", val)

	_, ok = c.Lookup(KeyDBHost)
	require.False(t, ok, "blank values are missing")

	require.NoError(t, c.Load())
	require.Error(t, c.LoadFromPath("/tmp/.env"))
}

func useConfig(t *testing.T, values map[string]string) {
	t.Helper()
	old := GetConfig()
	t.Cleanup(func() { SetConfig(old) })
	SetConfig(NewMapConfig(values))
}

func TestTypedKeys(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		useConfig(t, nil)
		require.Equal(t, DefaultDBDriver, DBDriver())
		require.Equal(t, DefaultSqlitePath, SqlitePath())
		require.Equal(t, DefaultCrudPort, CrudPort())
		require.Equal(t, MinTxRetry, TxRetry())
		require.Equal(t, DefaultLogLevel, LogLevel())
		require.Equal(t, "", CrudAPIKeys())
		require.Equal(t, "", LogDir())
		require.Equal(t, ":@tcp(:3306)/?charset=utf8mb4&parseTime=True&loc=Local", MySQLDSN())
	})

	t.Run("Set", func(t *testing.T) {
		useConfig(t, map[string]string{
			KeyDBDriver:    "sqlite",
			KeyDBUsername:  "crud",
			KeyDBPassword:  "secret",
			KeyDBHost:      "db",
			KeyDBPort:      "3307",
			KeyDBDatabase:  "mc",
			KeyCrudPort:    "8080",
			KeyCrudTxRetry: "7",
			KeyCrudJSDir:   "/js",
			KeyCrudLogDir:  "/var/log/mccrud",
			KeyLogLevel:    "debug",
		})
		require.Equal(t, "sqlite", DBDriver())
		require.Equal(t, "crud:secret@tcp(db:3307)/mc?charset=utf8mb4&parseTime=True&loc=Local", MySQLDSN())
		require.Equal(t, 8080, CrudPort())
		require.Equal(t, 7, TxRetry())
		require.Equal(t, "/js", JSDir())
		require.Equal(t, "/var/log/mccrud", LogDir())
		require.Equal(t, "debug", LogLevel())
	})

	t.Run("Invalid", func(t *testing.T) {
		useConfig(t, map[string]string{KeyCrudPort: "x", KeyCrudTxRetry: "1"})
		require.Equal(t, DefaultCrudPort, CrudPort())
		require.Equal(t, MinTxRetry, TxRetry())
	})
}

func TestDotenvConfigLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MCCRUD_TEST_DOTENV_KEY=42\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("MCCRUD_TEST_DOTENV_KEY") })

	c := NewDotenvConfig(path)
	require.NoError(t, c.Load())

	old := GetConfig()
	t.Cleanup(func() { SetConfig(old) })
	SetConfig(c)
	require.Equal(t, 42, GetIntKeyWithDefault("MCCRUD_TEST_DOTENV_KEY", 0))
	require.Equal(t, "fallback", GetKeyWithDefault("MCCRUD_TEST_DOTENV_MISSING", "fallback"))
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crud.env")
	require.NoError(t, os.WriteFile(path, []byte("MCCRUD_TEST_LOADED=yes\n"), 0600))
	t.Setenv(KeyCrudEnvFile, path)
	t.Cleanup(func() { _ = os.Unsetenv("MCCRUD_TEST_LOADED") })

	old := GetConfig()
	t.Cleanup(func() { SetConfig(old) })
	SetConfig(&DotenvConfig{})

	require.NoError(t, LoadDotenv())
	require.Equal(t, "yes", GetKey("MCCRUD_TEST_LOADED"))

	t.Setenv(KeyCrudEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, LoadDotenv())
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mccrud.yaml")
	content := `uri: /admin
dashboard: false
api_key_header: X-CRUD-KEY
menu:
  - users
  - title: Projects
    entity: projects
    icon: el-icon-folder
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, "/admin", s.URI)
	require.False(t, s.Dashboard)
	require.Equal(t, "X-CRUD-KEY", s.APIKeyHeader)
	require.Len(t, s.Menu, 2)
	require.Equal(t, "users", s.Menu[0])
	require.IsType(t, map[string]any{}, s.Menu[1])
}

func TestLoadSettingsDefaults(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)
	require.Equal(t, "/crud", s.URI)
	require.True(t, s.Dashboard)
	require.Equal(t, "X-API-KEY", s.APIKeyHeader)
	require.Empty(t, s.Menu)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
