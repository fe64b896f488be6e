package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	OTP      OTPConfig
	Orders   OrderConfig
	Quizzes  QuizConfig
	S3       S3Config
	Assets   AssetsConfig
	SQS      SQSConfig
	Coupons  CouponConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// APIKey guards the admin routes.
	APIKey        string
	SecureCookies bool
}

// RedisConfig holds the OTP store connection settings.
// When disabled an in-process store is used instead.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// OTPConfig holds one-time password settings.
type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// OrderConfig selects between the transactional checkout and the legacy
// step-by-step behaviour.
type OrderConfig struct {
	// Atomic wraps stock decrements, entitlements and the order insert in one transaction.
	Atomic bool
	// StrictProductType routes lookups by the declared item type instead of probing books first.
	StrictProductType bool
	// HonorPaymentProvider records the requested provider instead of COD.
	HonorPaymentProvider bool
}

// QuizConfig holds quiz attempt policy.
type QuizConfig struct {
	// RequireAccess rejects attempts on priced quizzes the user holds no entitlement for.
	RequireAccess bool
}

// S3Config holds AWS S3 configuration for coupon seed files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "coupons/")
}

// AssetsConfig holds the bucket used to sign ebook download links.
type AssetsConfig struct {
	Enabled    bool
	Bucket     string
	Region     string
	PresignTTL time.Duration
}

// SQSConfig holds the order event queue configuration.
type SQSConfig struct {
	Enabled  bool
	QueueURL string
	Region   string
}

// CouponConfig lists the gzipped coupon definition files seeded at startup.
type CouponConfig struct {
	SeedFiles []string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: loadDatabase(),
		Logger:   loadLogger(),
		Auth: AuthConfig{
			APIKey:        getEnv("API_KEY", ""),
			SecureCookies: getEnvAsBool("SECURE_COOKIES", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTP: OTPConfig{
			TTL:         getEnvAsDuration("OTP_TTL", 5*time.Minute),
			MaxAttempts: getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
		},
		Orders: OrderConfig{
			Atomic:               getEnvAsBool("ORDER_ATOMIC", true),
			StrictProductType:    getEnvAsBool("ORDER_STRICT_PRODUCT_TYPE", false),
			HonorPaymentProvider: getEnvAsBool("ORDER_HONOR_PAYMENT_PROVIDER", false),
		},
		Quizzes: QuizConfig{
			RequireAccess: getEnvAsBool("QUIZ_REQUIRE_ACCESS", false),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "coupons/"),
		},
		Assets: AssetsConfig{
			Enabled:    getEnvAsBool("S3_ASSETS_ENABLED", false),
			Bucket:     getEnv("S3_ASSETS_BUCKET", ""),
			Region:     getEnv("S3_ASSETS_REGION", "us-east-1"),
			PresignTTL: getEnvAsDuration("S3_ASSETS_PRESIGN_TTL", 15*time.Minute),
		},
		SQS: SQSConfig{
			Enabled:  getEnvAsBool("SQS_ENABLED", false),
			QueueURL: getEnv("SQS_QUEUE_URL", ""),
			Region:   getEnv("SQS_REGION", "us-east-1"),
		},
		Coupons: CouponConfig{
			SeedFiles: getEnvAsList("COUPON_SEED_FILES"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.OTP.TTL <= 0 {
		return fmt.Errorf("OTP TTL must be positive")
	}

	if c.OTP.MaxAttempts < 1 {
		return fmt.Errorf("OTP max attempts must be at least 1")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Assets.Enabled {
		if c.Assets.Bucket == "" {
			return fmt.Errorf("assets bucket is required when asset signing is enabled")
		}
		if c.Assets.PresignTTL <= 0 {
			return fmt.Errorf("assets presign TTL must be positive")
		}
	}

	if c.SQS.Enabled && c.SQS.QueueURL == "" {
		return fmt.Errorf("SQS queue URL is required when SQS is enabled")
	}

	return nil
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// Validate validates the logger configuration.
func (c *LoggerConfig) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "prepkart"),
		MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
		MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
		MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
	}
}

func loadLogger() LoggerConfig {
	return LoggerConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration parses values such as "90s" or "5m".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
