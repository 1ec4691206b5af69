package configs

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
	SSLMode  string `env:"SSLMODE" envDefault:"require"`

	StatementTimeoutMS int           `env:"STATEMENT_TIMEOUT_MS" envDefault:"3000"`
	MaxOpenConns       int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns       int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	SlowQuery          time.Duration `env:"SLOW_QUERY" envDefault:"200ms"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"warn"`
}

type LedgerConfig struct {
	Store            string        `env:"LEDGER_STORE" envDefault:"postgres"`
	Timezone         string        `env:"APP_TIMEZONE" envDefault:"Asia/Jakarta"`
	CronSchedule     string        `env:"LEDGER_CRON_SCHEDULE" envDefault:"1 0 * * *"`
	SchedulerEnabled bool          `env:"LEDGER_SCHEDULER_ENABLED" envDefault:"true"`
	SystemActorID    uuid.UUID     `env:"LEDGER_SYSTEM_ACTOR_ID"`
	OperationTimeout time.Duration `env:"LEDGER_OPERATION_TIMEOUT" envDefault:"30s"`
	// Loaded on startup when set; see internals/seeds
	SeedFile string `env:"LEDGER_SEED_FILE"`
}

type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	Environment string `env:"RAILWAY_ENVIRONMENT"`
	CorsOrigins string `env:"CORS_ALLOW_ORIGINS"`

	DB     DBConfig `envPrefix:"DB_"`
	Ledger LedgerConfig
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env outside Railway; on Railway the platform injects ENV.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Println("[CONFIG] running on Railway, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using system ENV")
		return
	}
	log.Println("[CONFIG] .env loaded")
}

// Load runs LoadEnv and parses the typed configuration.
func Load() (Config, error) {
	LoadEnv()
	return Parse()
}

// Parse reads the configuration from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Ledger.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("LEDGER_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Ledger.Store)
	}
	if c.Ledger.OperationTimeout <= 0 {
		return fmt.Errorf("LEDGER_OPERATION_TIMEOUT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE; period boundaries are computed in it.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", c.Ledger.Timezone, err)
	}
	return loc, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
