package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	DBDriver       string        `yaml:"db_driver"`
	DBHost         string        `yaml:"db_host"`
	DBPort         string        `yaml:"db_port"`
	DBUser         string        `yaml:"db_user"`
	DBPassword     string        `yaml:"db_password"`
	DBName         string        `yaml:"db_name"`
	SQLitePath     string        `yaml:"sqlite_path"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	APIKey         string        `yaml:"api_key"`
	Port           string        `yaml:"port"`
	EmailAPIKey    string        `yaml:"email_api_key"`
	EmailFrom      string        `yaml:"email_from"`
	AllowedOrigins string        `yaml:"allowed_origins"`
	Timezone       string        `yaml:"timezone"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

func Default() *Config {
	return &Config{
		DBDriver:       DriverMySQL,
		DBHost:         "localhost",
		DBPort:         "3306",
		DBUser:         "fittracker",
		DBPassword:     "fittracker_pass",
		DBName:         "fittracker",
		SQLitePath:     "fittracker.db",
		TokenTTL:       30 * 24 * time.Hour,
		Port:           "8080",
		EmailFrom:      "FitTracker <no-reply@fittracker.app>",
		AllowedOrigins: "*",
		Timezone:       "America/Sao_Paulo",
		LogLevel:       "info",
		LogFormat:      "json",
		MaxBodyBytes:   4 << 20,
	}
}

// Load reads the optional YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.APIKey = getEnv("API_KEY", c.APIKey)
	c.Port = getEnv("PORT", c.Port)
	c.EmailAPIKey = getEnv("EMAIL_API_KEY", c.EmailAPIKey)
	c.EmailFrom = getEnv("EMAIL_FROM", c.EmailFrom)
	c.AllowedOrigins = getEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		c.TokenTTL = d
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
		}
		c.MaxBodyBytes = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverSQLite {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// Location is the timezone used to decide which calendar day a meal falls on.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC&charset=utf8mb4"
}

func (c *Config) SQLiteDSN() string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return "file:" + c.SQLitePath + "?" + q.Encode()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
