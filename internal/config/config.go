package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Rec        RecConfig
	TMDB       TMDBConfig
	OMDb       OMDbConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Logging    LoggingConfig
	Enrichment EnrichmentConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RecConfig struct {
	BaseURL string
}

type TMDBConfig struct {
	BaseURL string
}

type OMDbConfig struct {
	APIKey string
}

// CacheConfig addresses the remote JSON blob store. OverrideURL, when set,
// takes precedence over the URL derived from BaseURL; Token is appended as a
// query parameter if the URL does not already carry one.
type CacheConfig struct {
	BaseURL     string
	OverrideURL string
	Token       string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level string
	File  string
}

type EnrichmentConfig struct {
	Cap int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Rec: RecConfig{
			BaseURL: getEnv("REC_BASE_URL", ""),
		},
		TMDB: TMDBConfig{
			BaseURL: getEnv("TMDB_PROXY_BASE_URL", ""),
		},
		OMDb: OMDbConfig{
			APIKey: getEnv("OMDB_API_KEY", ""),
		},
		Cache: CacheConfig{
			BaseURL:     getEnv("CACHE_BASE_URL", ""),
			OverrideURL: getEnv("CACHE_OVERRIDE_URL", ""),
			Token:       getEnv("CACHE_TOKEN", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Enrichment: EnrichmentConfig{
			Cap: getEnvInt("ENRICHMENT_CAP", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Rec.BaseURL == "" {
		return fmt.Errorf("REC_BASE_URL is required")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("TMDB_PROXY_BASE_URL is required")
	}
	if c.Cache.BaseURL == "" && c.Cache.OverrideURL == "" && !c.Redis.Enabled {
		return fmt.Errorf("one of CACHE_BASE_URL, CACHE_OVERRIDE_URL or REDIS_ENABLED is required")
	}
	if c.Enrichment.Cap < 0 {
		return fmt.Errorf("ENRICHMENT_CAP must not be negative")
	}
	return nil
}

// CacheURL resolves the blob URL for the merged payload. The override
// endpoint wins; otherwise the resource path is derived from the base URL.
func (c *Config) CacheURL() string {
	raw := c.Cache.OverrideURL
	if raw == "" {
		if c.Cache.BaseURL == "" {
			return ""
		}
		raw = strings.TrimRight(c.Cache.BaseURL, "/") + "/feed/home.json"
	}
	if c.Cache.Token != "" && !strings.Contains(raw, "token=") {
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		raw += sep + "token=" + c.Cache.Token
	}
	return raw
}

// EnrichmentCacheURL resolves the blob URL for a per-id enrichment entry.
func (c *Config) EnrichmentCacheURL(id string) string {
	base := c.Cache.BaseURL
	if base == "" {
		return ""
	}
	raw := strings.TrimRight(base, "/") + "/ratings/" + strings.ToLower(id) + ".json"
	if c.Cache.Token != "" {
		raw += "?token=" + c.Cache.Token
	}
	return raw
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
