// Package config loads punchclock settings from .env, the config file and
// PUNCH_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix  = "PUNCH"
	ConfigDir  = ".punchclock"
	configName = "config"
	configType = "toml"

	DriverJSON   = "json"
	DriverTOML   = "toml"
	DriverSQLite = "sqlite"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type SecretsConfig struct {
	Dir string `mapstructure:"dir"`
}

type AdminConfig struct {
	TokenKey string `mapstructure:"token_key"`
}

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Secrets SecretsConfig `mapstructure:"secrets"`
	Admin   AdminConfig   `mapstructure:"admin"`

	v *viper.Viper
}

// Options overrides where configuration is read from. Zero values use the
// working directory .env and ~/.punchclock/config.toml.
type Options struct {
	HomeDir    string
	EnvFile    string
	ConfigFile string
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	homeDir := opts.HomeDir
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}
	configDir := filepath.Join(homeDir, ConfigDir)

	v := viper.New()
	v.SetDefault("store.driver", DriverJSON)
	v.SetDefault("store.path", "")
	v.SetDefault("log.path", filepath.Join(configDir, "punch.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("http.addr", "127.0.0.1:8088")
	v.SetDefault("secrets.dir", filepath.Join(configDir, "secrets"))
	v.SetDefault("admin.token_key", "admin/token")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverJSON, DriverTOML, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q (want %s, %s or %s)", c.Store.Driver, DriverJSON, DriverTOML, DriverSQLite)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if strings.TrimSpace(c.Admin.TokenKey) == "" {
		return errors.New("admin token key is empty")
	}

	return nil
}

// Viper returns the settings the store and secret adapters read their keys
// from. Explicit Set calls take precedence over every other source.
func (c *Config) Viper() *viper.Viper {
	return c.v
}
