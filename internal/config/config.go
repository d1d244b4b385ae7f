package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	DefaultDeleteConfirmationToken = "CONFIRM_DELETE"
)

// Features holds the behaviour toggles. They can be set from the
// environment or from the optional YAML file named by CONFIG_FILE.
type Features struct {
	Pagination                bool   `yaml:"pagination"`
	DefaultPageSize           int    `yaml:"default_page_size"`
	EnforceCapacity           bool   `yaml:"enforce_capacity"`
	EnforceUpdateOwnership    bool   `yaml:"enforce_update_ownership"`
	RequireDeleteConfirmation bool   `yaml:"require_delete_confirmation"`
	DeleteConfirmationToken   string `yaml:"delete_confirmation_token"`
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins []string

	StoreBackend    string
	SQLitePath      string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	DatabaseURL     string

	JWTSecret       string
	JWKSURL         string
	SupabaseURL     string
	SupabaseAnonKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	Features Features
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),

		StoreBackend:    strings.ToLower(getEnvWithDefault("STORE_BACKEND", BackendSQLite)),
		SQLitePath:      getEnvWithDefault("SQLITE_PATH", "gatherly.db"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "gatherly"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWKSURL:         os.Getenv("JWKS_URL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		Features: Features{
			Pagination:                getEnvBool("ENABLE_PAGINATION", true),
			DefaultPageSize:           getEnvInt("DEFAULT_PAGE_SIZE", 10),
			EnforceCapacity:           getEnvBool("ENFORCE_CAPACITY", true),
			EnforceUpdateOwnership:    getEnvBool("ENFORCE_UPDATE_OWNERSHIP", true),
			RequireDeleteConfirmation: getEnvBool("REQUIRE_DELETE_CONFIRMATION", false),
			DeleteConfirmationToken:   getEnvWithDefault("DELETE_CONFIRMATION_TOKEN", DefaultDeleteConfirmationToken),
		},
	}

	// Supabase projects publish their signing keys here.
	if cfg.JWKSURL == "" && cfg.SupabaseURL != "" && cfg.JWTSecret == "" {
		cfg.JWKSURL = strings.TrimRight(cfg.SupabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFeatureFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFeatureFile overlays the features block of a YAML file. A missing file
// is not an error so the same CONFIG_FILE can be shared across environments.
func (c *Config) loadFeatureFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	file := struct {
		Features Features `yaml:"features"`
	}{Features: c.Features}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Features = file.Features
	return nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case BackendMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (expected memory, sqlite, mongo or postgres)", c.StoreBackend)
	}

	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("JWT_SECRET or JWKS_URL is required")
	}
	if c.Features.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be a positive integer")
	}
	if c.Features.RequireDeleteConfirmation && c.Features.DeleteConfirmationToken == "" {
		return fmt.Errorf("DELETE_CONFIRMATION_TOKEN is required when delete confirmation is enabled")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
