package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"schoolportal/internal/ratelimit"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Email contains email service configuration
	Email EmailConfig
	// Session contains session hardening settings
	Session SessionConfig
	// RateLimit contains throttling configuration
	RateLimit RateLimitConfig
	// SecurityLog contains the audit sink configuration
	SecurityLog SecurityLogConfig
	// Log contains application logger settings
	Log LogConfig
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// EmailConfig contains email service settings
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromAddress  string
	// AppURL is the base URL used in reset links
	AppURL string
}

// SessionConfig contains session cookie settings
type SessionConfig struct {
	// CookieSecure disables the Secure cookie attribute only for local
	// development over plain HTTP
	CookieSecure bool
}

// RateLimitConfig contains both the global per-IP request throttle and the
// per-action attempt limits
type RateLimitConfig struct {
	// Requests/Window configure the global token-bucket throttle
	Requests int
	Window   int

	Login         ratelimit.Policy
	Register      ratelimit.Policy
	PasswordReset ratelimit.Policy
}

// SecurityLogConfig contains the security event file sink settings
type SecurityLogConfig struct {
	// Path is the audit log file; empty means stdout
	Path string
	// MaxAgeDays is how long rotated audit files are kept
	MaxAgeDays int
	// RetentionDays is how long database event rows are kept
	RetentionDays int
}

// LogConfig contains application logger settings
type LogConfig struct {
	Level string
	Dev   bool
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "schoolportal"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}
	c.Email = EmailConfig{
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromAddress:  os.Getenv("SMTP_FROM"),
		AppURL:       os.Getenv("APP_URL"),
	}
	c.Session = SessionConfig{
		CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", true),
	}

	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Login = ratelimit.Policy{
		Limit:  getEnvAsInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5),
		Window: time.Duration(getEnvAsInt("RATE_LIMIT_LOGIN_WINDOW", 300)) * time.Second,
	}
	c.RateLimit.Register = ratelimit.Policy{
		Limit:  getEnvAsInt("RATE_LIMIT_REGISTER_ATTEMPTS", 3),
		Window: time.Duration(getEnvAsInt("RATE_LIMIT_REGISTER_WINDOW", 3600)) * time.Second,
	}
	c.RateLimit.PasswordReset = ratelimit.Policy{
		Limit:  getEnvAsInt("RATE_LIMIT_RESET_ATTEMPTS", 3),
		Window: time.Duration(getEnvAsInt("RATE_LIMIT_RESET_WINDOW", 3600)) * time.Second,
	}

	c.SecurityLog = SecurityLogConfig{
		Path:          os.Getenv("SECURITY_LOG_PATH"),
		MaxAgeDays:    getEnvAsInt("SECURITY_LOG_MAX_AGE_DAYS", 30),
		RetentionDays: getEnvAsInt("SECURITY_EVENT_RETENTION_DAYS", 90),
	}
	c.Log = LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "info"),
		Dev:   getEnvAsBool("LOG_DEV", false),
	}

	if c.RateLimit.Login.Limit <= 0 {
		return fmt.Errorf("RATE_LIMIT_LOGIN_ATTEMPTS must be positive")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
