package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	BusMemory = "memory"
	BusRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config agrupa toda la configuración del proceso.
// DB_FILE y REDIS_* mantienen los nombres del despliegue con docker-compose.
type Config struct {
	HTTPAddr string `env:"DINOPARK_HTTP_ADDR" envDefault:":3000"`

	Store  string `env:"DINOPARK_STORE" envDefault:"memory"`
	DBFile string `env:"DB_FILE" envDefault:"park_data/park.db"`
	DBDSN  string `env:"DB_DSN"`

	Bus           string `env:"DINOPARK_BUS" envDefault:"memory"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Capacidad de la cola de lotes; Submit bloquea cuando se llena.
	IngestQueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"64"`
	// Eventos por segundo publicados; 0 = sin límite.
	PublishRate float64 `env:"PUBLISH_RATE" envDefault:"0"`

	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"5s"`

	SeedURL     string        `env:"SEED_URL"`
	SeedAPIKey  string        `env:"SEED_API_KEY"`
	SeedTimeout time.Duration `env:"SEED_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"dinopark"`
}

// Load lee la configuración desde variables de entorno y la valida.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("%w: DB_DSN required for postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}

	switch strings.ToLower(c.Bus) {
	case BusMemory, BusRedis:
	default:
		return fmt.Errorf("%w: unknown bus %q", ErrInvalidConfig, c.Bus)
	}

	if c.ReconcileInterval <= 0 {
		return fmt.Errorf("%w: RECONCILE_INTERVAL must be positive", ErrInvalidConfig)
	}
	if c.IngestQueueSize <= 0 {
		return fmt.Errorf("%w: INGEST_QUEUE_SIZE must be positive", ErrInvalidConfig)
	}
	if c.PublishRate < 0 {
		return fmt.Errorf("%w: PUBLISH_RATE must be >= 0", ErrInvalidConfig)
	}
	return nil
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
