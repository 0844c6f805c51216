package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL            string
	DatabaseDriver         string
	Port                   string
	GoEnv                  string
	JWTSecret              string
	JWTIssuer              string
	JWTAudience            string
	JWTTTL                 time.Duration
	AWSRegion              string
	AWSS3Bucket            string
	AWSAccessKeyID         string
	AWSSecretAccessKey     string
	UploadDir              string
	LogLevel               string
	LogFormat              string
	CORSAllowedOrigins     []string
	OrderStatusTransitions map[string][]string
	NotificationTimeout    time.Duration
	AllowStaffRegistration bool
	AdminName              string
	AdminEmail             string
	AdminMobile            string
	AdminPassword          string
}

// DefaultOrderStatusTransitions only lets a pending order move on; every other status is terminal.
const DefaultOrderStatusTransitions = "pending=approved,rejected,delivered"

const developmentJWTSecret = "dev-secret-please-change"

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production environment variables are set directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	transitions, err := ParseTransitions(getEnv("ORDER_STATUS_TRANSITIONS", DefaultOrderStatusTransitions))
	if err != nil {
		return nil, err
	}

	config := &Config{
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DatabaseDriver:         strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		Port:                   getEnv("PORT", "8080"),
		GoEnv:                  getEnv("GO_ENV", "development"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTIssuer:              getEnv("JWT_ISSUER", "foodhub-api"),
		JWTAudience:            getEnv("JWT_AUDIENCE", "foodhub-clients"),
		JWTTTL:                 time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:            getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:         getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		CORSAllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		OrderStatusTransitions: transitions,
		NotificationTimeout:    time.Duration(getEnvInt("NOTIFICATION_TIMEOUT_SECONDS", 10)) * time.Second,
		AllowStaffRegistration: getEnvBool("ALLOW_STAFF_REGISTRATION", false),
		AdminName:              getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:             getEnv("ADMIN_EMAIL", ""),
		AdminMobile:            getEnv("ADMIN_MOBILE", ""),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
	}

	if config.JWTSecret == "" && !config.IsProduction() {
		log.Printf("JWT_SECRET not set, using the development secret")
		config.JWTSecret = developmentJWTSecret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret == developmentJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether uploaded images go to S3 rather than the local upload directory
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// HasBootstrapAdmin reports whether an admin account should be seeded at startup
func (c *Config) HasBootstrapAdmin() bool {
	return c.AdminMobile != "" && c.AdminPassword != ""
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// ParseTransitions parses "from=to1,to2;from2=to3" into an allowed-transition table.
// An empty string yields an empty table, i.e. every status is terminal.
func ParseTransitions(raw string) (map[string][]string, error) {
	table := make(map[string][]string)
	for _, rule := range strings.Split(raw, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		from, targets, ok := strings.Cut(rule, "=")
		from = strings.TrimSpace(from)
		if !ok || from == "" {
			return nil, fmt.Errorf("invalid ORDER_STATUS_TRANSITIONS rule %q", rule)
		}
		table[from] = append(table[from], splitList(targets)...)
	}
	return table, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
