package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Institution approval modes
const (
	ApprovalTransactional = "transactional"
	ApprovalSequential    = "sequential"
)

// Storage drivers
const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string `yaml:"port" env:"SERVER_PORT"`
		Mode          string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath   string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicBaseURL string `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		CORSOrigins   string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		Driver           string `yaml:"driver" env:"STORAGE_DRIVER"`
		CloudinaryURL    string `yaml:"cloudinary_url" env:"CLOUDINARY_URL"`
		CloudinaryFolder string `yaml:"cloudinary_folder" env:"CLOUDINARY_FOLDER"`
	} `yaml:"storage"`

	Realtime struct {
		Enabled        bool          `yaml:"enabled" env:"REALTIME_ENABLED"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" env:"REALTIME_RECONNECT_DELAY"`
	} `yaml:"realtime"`

	Kafka struct {
		Brokers  string `yaml:"brokers" env:"KAFKA_BROKERS"`
		Topic    string `yaml:"topic" env:"KAFKA_TOPIC"`
		Username string `yaml:"username" env:"KAFKA_USERNAME"`
		Password string `yaml:"password" env:"KAFKA_PASSWORD"`
	} `yaml:"kafka"`

	Email struct {
		Host     string `yaml:"host" env:"SMTP_HOST"`
		Port     int    `yaml:"port" env:"SMTP_PORT"`
		Username string `yaml:"username" env:"SMTP_USER"`
		Password string `yaml:"password" env:"SMTP_PASS"`
		From     string `yaml:"from" env:"SMTP_SENDER"`
	} `yaml:"email"`

	Moderation struct {
		InstitutionApproval string `yaml:"institution_approval" env:"MODERATION_INSTITUTION_APPROVAL"`
		SweeperSchedule     string `yaml:"sweeper_schedule" env:"MODERATION_SWEEPER_SCHEDULE"`
	} `yaml:"moderation"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is loaded first, without overriding
// variables that are already set.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.CORSOrigins = "*"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "tutorhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "tutorhub.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = StorageLocal
	config.Storage.CloudinaryFolder = "tutorhub"

	config.Realtime.Enabled = true
	config.Realtime.ReconnectDelay = 5 * time.Second

	config.Kafka.Topic = "tutorhub.table-changes"

	config.Email.Port = 465

	config.Moderation.InstitutionApproval = ApprovalTransactional
	config.Moderation.SweeperSchedule = "@every 15m"

	config.Seed.Enabled = true
	config.Seed.AdminEmail = "admin@tutorhub.app"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}

	switch config.Storage.Driver {
	case StorageLocal:
	case StorageCloudinary:
		if config.Storage.CloudinaryURL == "" {
			return fmt.Errorf("cloudinary_url is required for the cloudinary storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch config.Moderation.InstitutionApproval {
	case ApprovalTransactional, ApprovalSequential:
	default:
		return fmt.Errorf("unknown institution approval mode %q", config.Moderation.InstitutionApproval)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL is the externally reachable origin used to build upload URLs
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicBaseURL != "" {
		return strings.TrimRight(c.Server.PublicBaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// CORSAllowedOrigins splits the comma separated origin list
func (c *Config) CORSAllowedOrigins() []string {
	return splitList(c.Server.CORSOrigins)
}

// KafkaBrokers splits the comma separated broker list
func (c *Config) KafkaBrokers() []string {
	return splitList(c.Kafka.Brokers)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
