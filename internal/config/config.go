package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

// Placeholder secrets; startup warns when they are still in use.
const (
	DefaultSecretKey = "mysecretkey"
	DefaultUsername  = "user1"
	DefaultPassword  = "password123"
)

// User sources
const (
	UserSourceConfig   = "config"
	UserSourceMySQL    = "mysql"
	UserSourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           int   `yaml:"port"`
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
	} `yaml:"server"`

	Auth struct {
		SecretKey  string            `yaml:"secretKey"`
		TokenTTL   time.Duration     `yaml:"tokenTTL"`
		UserSource string            `yaml:"userSource"`
		Users      []auth.Credential `yaml:"users"`
	} `yaml:"auth"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`

	CORS struct {
		AllowedOrigins   []string `yaml:"allowedOrigins"`
		AllowCredentials bool     `yaml:"allowCredentials"`
		MaxAge           int      `yaml:"maxAge"`
	} `yaml:"cors"`

	Sentiment struct {
		StripMarkup bool `yaml:"stripMarkup"`
	} `yaml:"sentiment"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Auth.SecretKey = DefaultSecretKey
	c.Auth.TokenTTL = time.Hour
	c.Auth.UserSource = UserSourceConfig
	c.Database.SSLMode = "disable"
	c.CORS.AllowedOrigins = []string{"*"}
	c.CORS.AllowCredentials = true
	c.CORS.MaxAge = 300
	c.Log.Level = "info"
	return &c
}

// LoadEnv loads config/envs/.env.<env> and then .env into the process
// environment. Existing variables are not overwritten.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Debug("env file not found", slog.String("file", envFile))
	}
	if err := gotenv.Load(); err != nil {
		slog.Debug("no .env file found, using OS environment")
	}
}

// Load reads the yaml file at path on top of Default and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := env("SECRET_KEY"); v != "" {
		c.Auth.SecretKey = v
	}
	if v := env("USER_SOURCE"); v != "" {
		c.Auth.UserSource = strings.ToLower(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := env("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := env("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := env("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := env("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL value %q: %w", v, err)
		}
		c.Auth.TokenTTL = d
	}
	if err := intEnv("PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := intEnv("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if v := env("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES value %q: %w", v, err)
		}
		c.Server.MaxUploadBytes = n
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Auth.SecretKey == "" {
		return errors.New("auth.secretKey must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid auth.tokenTTL: %s", c.Auth.TokenTTL)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("invalid server.maxUploadBytes: %d", c.Server.MaxUploadBytes)
	}
	switch c.Auth.UserSource {
	case UserSourceConfig, UserSourceMySQL, UserSourcePostgres:
	default:
		return fmt.Errorf("invalid auth.userSource %q (allowed: config, mysql, postgres)", c.Auth.UserSource)
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.BucketName == "") {
		return errors.New("archive.endpoint and archive.bucketName are required when archive is enabled")
	}
	return nil
}

// ConfigUsers returns the configured users, or the placeholder user when the
// list is empty. The second value reports whether the placeholder was used.
func (c *Config) ConfigUsers() ([]auth.Credential, bool) {
	if len(c.Auth.Users) > 0 {
		return c.Auth.Users, false
	}
	return []auth.Credential{{Username: DefaultUsername, Password: DefaultPassword}}, true
}

// UsesDefaultSecret reports whether the placeholder signing key is in use.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.SecretKey == DefaultSecretKey
}

// LogLevel maps log.level to a slog level; unknown values mean info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper to build the MySQL DSN
func (c *Config) MySQLDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		port,
		c.Database.Name,
	)
}

// Helper to build the Postgres DSN
func (c *Config) PostgresDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func intEnv(key string, dst *int) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
