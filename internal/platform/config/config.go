package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config agrupa todo lo que el proceso lee del entorno.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"pet-ledger"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DBDSN         string `env:"DB_DSN"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"pet-ledger.db"`

	// Registro: admin se liga en el primer arranque; oracle y cooldown son valores iniciales.
	AdminID               string `env:"ADMIN_ID"`
	BattleOracleID        string `env:"BATTLE_ORACLE_ID"`
	BattleCooldownSeconds int64  `env:"BATTLE_COOLDOWN_SECONDS" envDefault:"0"`

	// Claim tokens. Sin key => se genera una aleatoria por proceso.
	ClaimTokenKey string        `env:"CLAIM_TOKEN_KEY"`
	ClaimTokenTTL time.Duration `env:"CLAIM_TOKEN_TTL" envDefault:"0s"`

	// Auth. Sin secret => modo dev (X-Debug-User-ID).
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`
	AuthJWTIssuer string `env:"AUTH_JWT_ISSUER"`

	// Notificaciones externas (opcional).
	NotifyWebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	NotifyQueueSize  int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parsea el entorno y valida la combinación resultante.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.AdminID = strings.TrimSpace(c.AdminID)
	c.BattleOracleID = strings.TrimSpace(c.BattleOracleID)
	c.DBDSN = strings.TrimSpace(c.DBDSN)
	c.SQLitePath = strings.TrimSpace(c.SQLitePath)
	c.NotifyWebhookURL = strings.TrimSpace(c.NotifyWebhookURL)
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.AdminID == "" {
		errs = append(errs, errors.New("ADMIN_ID is required"))
	}
	if c.BattleCooldownSeconds < 0 {
		errs = append(errs, errors.New("BATTLE_COOLDOWN_SECONDS must be >= 0"))
	}
	if c.NotifyQueueSize <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be > 0"))
	}
	if c.ClaimTokenTTL < 0 {
		errs = append(errs, errors.New("CLAIM_TOKEN_TTL must be >= 0"))
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres storage"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}
