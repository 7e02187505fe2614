package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`
	Auth      AuthConfig      `yaml:"auth"`
	Messaging MessagingConfig `yaml:"messaging"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver" env:"FABCAT_DATABASE_DRIVER"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"FABCAT_SQLITE_PATH"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"FABCAT_POSTGRES_HOST"`
	Port     int    `yaml:"port" env:"FABCAT_POSTGRES_PORT"`
	Database string `yaml:"database" env:"FABCAT_POSTGRES_DATABASE"`
	User     string `yaml:"user" env:"FABCAT_POSTGRES_USER"`
	Password string `yaml:"password" env:"FABCAT_POSTGRES_PASSWORD"`
	SSLMode  string `yaml:"sslmode" env:"FABCAT_POSTGRES_SSLMODE"`
}

// RedisConfig points at the token revocation list. An empty address disables it.
type RedisConfig struct {
	Address  string `yaml:"address" env:"FABCAT_REDIS_ADDRESS"`
	Password string `yaml:"password" env:"FABCAT_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"FABCAT_REDIS_DB"`
}

type WebConfig struct {
	Host          string   `yaml:"host" env:"FABCAT_WEB_HOST"`
	Port          int      `yaml:"port" env:"FABCAT_WEB_PORT"`
	SessionSecret string   `yaml:"session_secret" env:"FABCAT_SESSION_SECRET"`
	CORSOrigins   []string `yaml:"cors_origins" env:"FABCAT_CORS_ORIGINS"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"FABCAT_JWT_SECRET"`
	Issuer    string        `yaml:"issuer" env:"FABCAT_JWT_ISSUER"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"FABCAT_TOKEN_TTL"`
}

type MessagingConfig struct {
	Enabled             bool          `yaml:"enabled" env:"FABCAT_MESSAGING_ENABLED"`
	Kafka               KafkaConfig   `yaml:"kafka"`
	EventsTopic         string        `yaml:"events_topic" env:"FABCAT_EVENTS_TOPIC"`
	OutboxDrainInterval time.Duration `yaml:"outbox_drain_interval" env:"FABCAT_OUTBOX_DRAIN_INTERVAL"`
	Source              string        `yaml:"source" env:"FABCAT_EVENT_SOURCE"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"FABCAT_KAFKA_BROKERS"`
	GroupID string   `yaml:"group_id" env:"FABCAT_KAFKA_GROUP_ID"`
}

// StorageConfig selects where drawing files are kept.
type StorageConfig struct {
	Type string   `yaml:"type" env:"FABCAT_STORAGE_TYPE"`
	Dir  string   `yaml:"dir" env:"FABCAT_STORAGE_DIR"`
	S3   S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string        `yaml:"endpoint" env:"FABCAT_S3_ENDPOINT"`
	Region    string        `yaml:"region" env:"FABCAT_S3_REGION"`
	Bucket    string        `yaml:"bucket" env:"FABCAT_S3_BUCKET"`
	KeyID     string        `yaml:"key_id" env:"FABCAT_S3_KEY_ID"`
	AccessKey string        `yaml:"access_key" env:"FABCAT_S3_ACCESS_KEY"`
	Timeout   time.Duration `yaml:"timeout" env:"FABCAT_S3_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"FABCAT_LOG_LEVEL"`
}

func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "fabcatalogue.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "fabcatalogue",
				User:     "fabcatalogue",
				Password: "",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Address:  "",
			Password: "",
			DB:       0,
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			SessionSecret: "change-me-in-production",
		},
		Auth: AuthConfig{
			JWTSecret: "change-me-in-production",
			Issuer:    "fabcatalogue",
			TokenTTL:  24 * time.Hour,
		},
		Messaging: MessagingConfig{
			Enabled: false,
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "fabcatalogue",
			},
			EventsTopic:         "fabcatalogue.events",
			OutboxDrainInterval: 5 * time.Second,
			Source:              "fabcatalogue",
		},
		Storage: StorageConfig{
			Type: "filesystem",
			Dir:  "drawing-files",
			S3: S3Config{
				Region:  "us-east-1",
				Timeout: 30 * time.Second,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, then applies FABCAT_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "filesystem", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	if c.Web.SessionSecret == "" {
		return errors.New("web.session_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	return nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Lock()   { c.mu.Lock() }
func (c *Config) Unlock() { c.mu.Unlock() }
