package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/program-catalog-api/internal/models"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Ephemeral cache configuration
	Cache CacheConfig

	// YouTube provider configuration
	YouTube YouTubeConfig

	// Content defaults
	Content ContentConfig

	// Pagination limits enforced at the boundary
	Pagination PaginationConfig

	// Logging configuration
	Log LogConfig

	MigrationsPath string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// CacheConfig holds ephemeral cache settings
type CacheConfig struct {
	MaxEntries int
	DefaultTTL time.Duration
	FiltersTTL time.Duration
}

// YouTubeConfig holds the YouTube Data API settings
type YouTubeConfig struct {
	APIKey       string
	ChannelID    string
	BaseURL      string
	Timeout      time.Duration
	UseHTTPCache bool // revalidate responses with ETags through httpcache

	// bounds for the response store behind httpcache
	HTTPCacheEntries int
	HTTPCacheTTL     time.Duration
}

// ContentConfig holds catalog defaults
type ContentConfig struct {
	DefaultLanguage models.Language
}

// PaginationConfig holds page size limits
type PaginationConfig struct {
	DefaultPageSize     int
	MaxPageSize         int
	DefaultSearchLimit  int
	DefaultRelatedLimit int
	MaxRelatedLimit     int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"SERVER_READ_TIMEOUT":     "30s",
	"SERVER_WRITE_TIMEOUT":    "30s",
	"SERVER_SHUTDOWN_TIMEOUT": "30s",

	"DB_HOST":           "localhost",
	"DB_PORT":           "5432",
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "postgres",
	"DB_NAME":           "program_catalog",
	"DB_SSLMODE":        "disable",
	"DB_MAX_OPEN_CONNS": 25,
	"DB_MAX_IDLE_CONNS": 5,
	"DB_MAX_LIFETIME":   "5m",

	"CACHE_MAX_ENTRIES": 1000,
	"CACHE_DEFAULT_TTL": "1h",
	"CACHE_FILTERS_TTL": "1h",

	"YOUTUBE_API_KEY":    "",
	"YOUTUBE_CHANNEL_ID": "",
	"YOUTUBE_BASE_URL":   "https://www.googleapis.com/youtube/v3",
	"YOUTUBE_TIMEOUT":    "10s",
	"YOUTUBE_HTTP_CACHE": true,

	"YOUTUBE_HTTP_CACHE_ENTRIES": 500,
	"YOUTUBE_HTTP_CACHE_TTL":     "24h",

	"DEFAULT_LANGUAGE": string(models.LanguageArabic),

	"DEFAULT_PAGE_SIZE":     20,
	"MAX_PAGE_SIZE":         100,
	"DEFAULT_SEARCH_LIMIT":  10,
	"DEFAULT_RELATED_LIMIT": 5,
	"MAX_RELATED_LIMIT":     50,

	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",
	"MIGRATIONS_PATH": "./migrations",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	lang, err := models.ParseLanguage(v.GetString("DEFAULT_LANGUAGE"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:  v.GetDuration("DB_MAX_LIFETIME"),
		},
		Cache: CacheConfig{
			MaxEntries: v.GetInt("CACHE_MAX_ENTRIES"),
			DefaultTTL: v.GetDuration("CACHE_DEFAULT_TTL"),
			FiltersTTL: v.GetDuration("CACHE_FILTERS_TTL"),
		},
		YouTube: YouTubeConfig{
			APIKey:       v.GetString("YOUTUBE_API_KEY"),
			ChannelID:    v.GetString("YOUTUBE_CHANNEL_ID"),
			BaseURL:      strings.TrimRight(v.GetString("YOUTUBE_BASE_URL"), "/"),
			Timeout:      v.GetDuration("YOUTUBE_TIMEOUT"),
			UseHTTPCache: v.GetBool("YOUTUBE_HTTP_CACHE"),

			HTTPCacheEntries: v.GetInt("YOUTUBE_HTTP_CACHE_ENTRIES"),
			HTTPCacheTTL:     v.GetDuration("YOUTUBE_HTTP_CACHE_TTL"),
		},
		Content: ContentConfig{
			DefaultLanguage: lang,
		},
		Pagination: PaginationConfig{
			DefaultPageSize:     v.GetInt("DEFAULT_PAGE_SIZE"),
			MaxPageSize:         v.GetInt("MAX_PAGE_SIZE"),
			DefaultSearchLimit:  v.GetInt("DEFAULT_SEARCH_LIMIT"),
			DefaultRelatedLimit: v.GetInt("DEFAULT_RELATED_LIMIT"),
			MaxRelatedLimit:     v.GetInt("MAX_RELATED_LIMIT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if c.YouTube.Timeout <= 0 {
		return fmt.Errorf("YOUTUBE_TIMEOUT must be positive")
	}
	if c.YouTube.UseHTTPCache && (c.YouTube.HTTPCacheEntries <= 0 || c.YouTube.HTTPCacheTTL <= 0) {
		return fmt.Errorf("YOUTUBE_HTTP_CACHE_ENTRIES and YOUTUBE_HTTP_CACHE_TTL must be positive")
	}
	if !c.Content.DefaultLanguage.IsValid() {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not supported", c.Content.DefaultLanguage)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive")
	}
	p := c.Pagination
	if p.DefaultPageSize < 1 || p.DefaultPageSize > p.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and MAX_PAGE_SIZE")
	}
	if p.DefaultRelatedLimit < 1 || p.DefaultRelatedLimit > p.MaxRelatedLimit {
		return fmt.Errorf("DEFAULT_RELATED_LIMIT must be between 1 and MAX_RELATED_LIMIT")
	}
	if p.DefaultSearchLimit < 1 || p.DefaultSearchLimit > p.MaxPageSize {
		return fmt.Errorf("DEFAULT_SEARCH_LIMIT must be between 1 and MAX_PAGE_SIZE")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
