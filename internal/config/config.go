package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Logging      LoggingConfig
	Usage        UsageConfig
	Mail         MailConfig
	Simulation   SimulationConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret      string
	AccessExpiryHours int
	RememberMeDays    int
}

type StorageConfig struct {
	Type string
	Path string
}

type LoggingConfig struct {
	Level string
	Dev   bool
	File  string
}

type UsageConfig struct {
	Timezone          string
	RecordSuggestions bool
}

type MailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	ResetURL       string
}

// SimulationConfig holds the artificial delays standing in for the payment
// processor and the identity verification service.
type SimulationConfig struct {
	PaymentDelay      time.Duration
	VerificationDelay time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_ACCESS_EXPIRY_HOURS", 24*7)
	v.SetDefault("JWT_REMEMBER_ME_DAYS", 30)
	v.SetDefault("STORAGE_TYPE", StorageMemory)
	v.SetDefault("STORAGE_PATH", "qupid.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("USAGE_TIMEZONE", "Local")
	v.SetDefault("USAGE_RECORD_SUGGESTIONS", false)
	v.SetDefault("MAIL_FROM_ADDRESS", "no-reply@qupid.app")
	v.SetDefault("MAIL_FROM_NAME", "Qupid")
	v.SetDefault("MAIL_RESET_URL", "https://qupid.app/reset-password")
	v.SetDefault("PAYMENT_DELAY", 2*time.Second)
	v.SetDefault("VERIFICATION_DELAY", 2*time.Second)
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:      v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryHours: v.GetInt("JWT_ACCESS_EXPIRY_HOURS"),
			RememberMeDays:    v.GetInt("JWT_REMEMBER_ME_DAYS"),
		},
		Storage: StorageConfig{
			Type: v.GetString("STORAGE_TYPE"),
			Path: v.GetString("STORAGE_PATH"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dev:   v.GetBool("LOG_DEV"),
			File:  v.GetString("LOG_FILE"),
		},
		Usage: UsageConfig{
			Timezone:          v.GetString("USAGE_TIMEZONE"),
			RecordSuggestions: v.GetBool("USAGE_RECORD_SUGGESTIONS"),
		},
		Mail: MailConfig{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			FromAddress:    v.GetString("MAIL_FROM_ADDRESS"),
			FromName:       v.GetString("MAIL_FROM_NAME"),
			ResetURL:       v.GetString("MAIL_RESET_URL"),
		},
		Simulation: SimulationConfig{
			PaymentDelay:      v.GetDuration("PAYMENT_DELAY"),
			VerificationDelay: v.GetDuration("VERIFICATION_DELAY"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if _, err := c.Usage.Location(); err != nil {
		return fmt.Errorf("invalid usage timezone %q: %w", c.Usage.Timezone, err)
	}
	if c.Simulation.PaymentDelay < 0 || c.Simulation.VerificationDelay < 0 {
		return fmt.Errorf("simulation delays must not be negative")
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for sqlite storage")
		}
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StorageRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return nil
}

// Location returns the timezone the usage day boundary is computed in.
func (c *UsageConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
