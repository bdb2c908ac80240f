package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	LimiterBackendMemory = "memory"
	LimiterBackendRedis  = "redis"
)

type Config struct {
	Debug      bool       `yaml:"debug" env:"DEBUG"`
	AppSecret  string     `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Storage    string     `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	Limiter    Limiter    `yaml:"limiter"`
	Server     Server     `yaml:"server"`
	DB         DB         `yaml:"db"`
	Redis      Redis      `yaml:"redis"`
	SMTPServer SMTPServer `yaml:"smtp_server"`
	Tokens     Tokens     `yaml:"tokens"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
	Backend string  `yaml:"backend" env:"LIMITER_BACKEND" env-default:"memory"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	Migrate         bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type SMTPServer struct {
	Host     string        `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username string        `yaml:"username" env:"SMTP_USERNAME"`
	Password string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender   string        `yaml:"sender" env:"SMTP_SENDER" env-default:"ReviewHub <no-reply@reviewhub.local>"`
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
}

type Tokens struct {
	AccessTTL time.Duration `yaml:"access_ttl" env:"ACCESS_TOKEN_TTL" env-default:"24h"`
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres:
		if c.DB.Dsn == "" {
			errs = append(errs, errors.New("db.dsn is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	switch c.Limiter.Backend {
	case LimiterBackendMemory, LimiterBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown limiter backend %q", c.Limiter.Backend))
	}
	if len(c.AppSecret) < 16 {
		errs = append(errs, errors.New("app_secret should be at least 16 characters long"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file, then the YAML config with env overrides.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}
