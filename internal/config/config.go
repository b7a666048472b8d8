package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/spendlog/spendlog/internal/logger"
)

// DBConfig selects the ledger backend and carries the sqlite tuning knobs.
type DBConfig struct {
	// Driver is one of the drivers registered in internal/backend
	// ("sqlite" or "csv").
	Driver string `toml:"driver"`
	// Source is the sqlite database path or the csv file path.
	Source string `toml:"source"`

	MaxOpenConns    int `toml:"max_open_conns"`
	MaxIdleConns    int `toml:"max_idle_conns"`
	ConnMaxLifetime int `toml:"conn_max_lifetime_seconds"`

	JournalMode string `toml:"journal_mode"`
	Synchronous string `toml:"synchronous"`
	BusyTimeout int    `toml:"busy_timeout_ms"`
	CacheSize   int    `toml:"cache_size"`
}

type AuthConfig struct {
	// SessionFile is where the login command stores the session token
	// that later invocations resolve into their scope.
	SessionFile string `toml:"session_file"`
	// SessionDuration is how long issued sessions stay valid.
	SessionDurationHours int `toml:"session_duration_hours"`
}

type Config struct {
	DB     DBConfig      `toml:"db"`
	Auth   AuthConfig    `toml:"auth"`
	Logger logger.Config `toml:"logger"`
}

const (
	defaultDriver          = "csv"
	defaultCSVSource       = "storage.csv"
	defaultSessionFile     = "spendlog.session"
	defaultSessionDuration = 7 * 24
)

// Parse loads the TOML configuration at path and applies environment
// overrides. A missing file is not an error; the defaults plus environment
// are used instead.
func Parse(path string) (*Config, error) {
	conf := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	conf.parseEnv()
	conf.applyDefaults()

	return conf, nil
}

func (c *Config) parseEnv() {
	if driver := os.Getenv("SPENDLOG_DB_DRIVER"); driver != "" {
		c.DB.Driver = driver
	}

	if source := os.Getenv("SPENDLOG_DB_SOURCE"); source != "" {
		c.DB.Source = source
	}

	if sessionFile := os.Getenv("SPENDLOG_SESSION_FILE"); sessionFile != "" {
		c.Auth.SessionFile = sessionFile
	}

	if level := os.Getenv("SPENDLOG_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("SPENDLOG_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("SPENDLOG_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = defaultDriver
	}

	if c.DB.Source == "" {
		switch c.DB.Driver {
		case "sqlite":
			c.DB.Source = "spendlog.db"
		default:
			c.DB.Source = defaultCSVSource
		}
	}

	if c.Auth.SessionFile == "" {
		c.Auth.SessionFile = defaultSessionFile
	}

	if c.Auth.SessionDurationHours <= 0 {
		c.Auth.SessionDurationHours = defaultSessionDuration
	}

	if c.Logger.Level == "" {
		c.Logger.Level = logger.LevelInfo
	}

	if c.Logger.Format == "" {
		c.Logger.Format = logger.FormatText
	}

	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
}

// SessionDuration returns the configured session lifetime.
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.Auth.SessionDurationHours) * time.Hour
}
