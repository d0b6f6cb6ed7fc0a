package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig holds database configuration
type DBConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// Driver reports which gorm dialector should be used. A DATABASE_URL pointing at
// Postgres, or an explicit DB_HOST, selects Postgres; anything else falls back to
// the local SQLite file.
func (c *DBConfig) Driver() string {
	if c.URL != "" {
		if strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") {
			return DriverPostgres
		}
		return DriverSQLite
	}
	if c.Host != "" {
		return DriverPostgres
	}
	return DriverSQLite
}

// GetDSN returns the connection string for the selected driver
func (c *DBConfig) GetDSN() string {
	if c.Driver() == DriverSQLite {
		if c.URL != "" {
			return strings.TrimPrefix(c.URL, "sqlite://")
		}
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// IsProduction reports whether the service runs with production settings
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// WhatsAppConfig holds the outbound messaging configuration. When Token or
// PhoneID is empty messages are only logged.
type WhatsAppConfig struct {
	Token              string
	PhoneID            string
	Recipient          string
	BaseURL            string
	DefaultCountryCode string
	Timeout            time.Duration
}

// Enabled reports whether real delivery is configured
func (w WhatsAppConfig) Enabled() bool {
	return w.Token != "" && w.PhoneID != ""
}

// SeedConfig controls the startup seed routine
type SeedConfig struct {
	Enabled       bool
	SampleData    bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// OIDCConfig enables ID tokens from an external identity provider
type OIDCConfig struct {
	IssuerURL string
	ClientID  string
}

// Enabled reports whether OIDC verification should be set up
func (o OIDCConfig) Enabled() bool {
	return o.IssuerURL != "" && o.ClientID != ""
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	WhatsApp    WhatsAppConfig
	Seed        SeedConfig
	OIDC        OIDCConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	env := getEnv("APP_ENV", "development")

	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "storefront-service"),
		DB: DBConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "storefront"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "instance/tienda.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
			Env:  env,
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "storefrontsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "storefront"),
		},
		WhatsApp: WhatsAppConfig{
			Token:              getEnv("WHATSAPP_TOKEN", ""),
			PhoneID:            getEnv("WHATSAPP_PHONE_ID", ""),
			Recipient:          getEnv("WHATSAPP_RECIPIENT", ""),
			BaseURL:            getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v17.0"),
			DefaultCountryCode: getEnv("WHATSAPP_COUNTRY_CODE", "51"),
			Timeout:            getEnvAsDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		},
		Seed: SeedConfig{
			Enabled:       getEnvAsBool("SEED_ENABLED", true),
			SampleData:    getEnvAsBool("SEED_SAMPLE_DATA", env != "production"),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@tienda.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		OIDC: OIDCConfig{
			IssuerURL: getEnv("OIDC_ISSUER_URL", ""),
			ClientID:  getEnv("OIDC_CLIENT_ID", ""),
		},
	}

	if config.Server.IsProduction() && config.JWT.SigningKey == "storefrontsecretkey" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver()),
		zap.String("server_port", c.Server.Port),
		zap.Bool("whatsapp_enabled", c.WhatsApp.Enabled()),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
