package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(Options{HomeDir: home, EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, filepath.Join(home, ".punchclock", "punch.log"), cfg.Log.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8088", cfg.HTTP.Addr)
	assert.Equal(t, filepath.Join(home, ".punchclock", "secrets"), cfg.Secrets.Dir)
	assert.Equal(t, "admin/token", cfg.Admin.TokenKey)
	assert.Equal(t, DriverJSON, cfg.Viper().GetString("store.driver"))
}

func TestLoadReadsConfigFileFromHome(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".punchclock")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
[store]
driver = "SQLite"
path = "/var/lib/punch/punch.db"

[log]
level = "debug"
`), 0o600))

	cfg, err := Load(Options{HomeDir: home, EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/punch/punch.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/punch/punch.db", cfg.Viper().GetString("store.path"))
}

func TestLoadEnvironmentOverridesConfigFile(t *testing.T) {
	home := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[http]\naddr = \"0.0.0.0:9000\"\n"), 0o600))

	t.Setenv("PUNCH_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("PUNCH_STORE_DRIVER", "toml")

	cfg, err := Load(Options{HomeDir: home, EnvFile: missingEnvFile(t), ConfigFile: configFile})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.HTTP.Addr)
	assert.Equal(t, DriverTOML, cfg.Store.Driver)
}

func TestLoadReadsDotEnv(t *testing.T) {
	home := t.TempDir()
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PUNCH_LOG_LEVEL=warn\n"), 0o600))

	// godotenv never overrides variables that are already set; register the
	// key with t.Setenv so it is restored afterwards, then clear it.
	t.Setenv("PUNCH_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("PUNCH_LOG_LEVEL"))

	cfg, err := Load(Options{HomeDir: home, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown driver", env: map[string]string{"PUNCH_STORE_DRIVER": "redis"}, wantErr: "unknown store driver"},
		{name: "bad level", env: map[string]string{"PUNCH_LOG_LEVEL": "loud"}, wantErr: "invalid log level"},
		{name: "blank token key", env: map[string]string{"PUNCH_ADMIN_TOKEN_KEY": " "}, wantErr: "admin token key is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			_, err := Load(Options{HomeDir: t.TempDir(), EnvFile: missingEnvFile(t)})
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[store\n"), 0o600))

	_, err := Load(Options{HomeDir: t.TempDir(), EnvFile: missingEnvFile(t), ConfigFile: configFile})
	require.ErrorContains(t, err, "read config file")
}
