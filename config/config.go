package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Router   RouterConfig   `mapstructure:"router"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	HTTPPort string `mapstructure:"http_port"`
}

// DatabaseConfig: либо готовый DSN, либо user/password/host/name.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Name     string `mapstructure:"name"`
}

type RouterConfig struct {
	URL            string        `mapstructure:"url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	StartupDelay   time.Duration `mapstructure:"startup_delay"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// env names kept compatible with the docker-compose deployment
var envBindings = map[string]string{
	"router.url":           "ROUTER_URL",
	"router.poll_interval": "POLL_INTERVAL",
	"database.driver":      "DB_DRIVER",
	"database.dsn":         "DB_DSN",
	"database.user":        "DB_USER",
	"database.password":    "DB_PASSWORD",
	"database.host":        "DB_HOST",
	"database.name":        "DB_NAME",
	"server.http_port":     "WEB_PORT",
	"logging.level":        "LOG_LEVEL",
	"logging.format":       "LOG_FORMAT",
	"logging.file":         "LOG_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", "5000")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.name", "device_tracker")

	v.SetDefault("router.url", "http://192.168.1.254/cgi-bin/home.ha")
	v.SetDefault("router.poll_interval", "100s")
	v.SetDefault("router.startup_delay", "10s")
	v.SetDefault("router.connect_timeout", "30s")
	v.SetDefault("router.read_timeout", "120s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load читает конфиг: defaults → файл (если задан) → переменные окружения.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// POLL_INTERVAL в старом деплое задавался в секундах без суффикса
	if raw := strings.TrimSpace(v.GetString("router.poll_interval")); raw != "" && isDigits(raw) {
		v.Set("router.poll_interval", raw+"s")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// "none": работа без БД (in-memory store)
	if cfg.Database.Driver == "none" {
		cfg.Database.Driver = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Router.URL) == "" {
		return errors.New("router.url is required")
	}
	if c.Router.PollInterval <= 0 {
		return fmt.Errorf("router.poll_interval must be positive, got %s", c.Router.PollInterval)
	}
	if c.Router.StartupDelay < 0 {
		return fmt.Errorf("router.startup_delay must not be negative, got %s", c.Router.StartupDelay)
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
