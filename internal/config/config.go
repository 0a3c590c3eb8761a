// Package config loads service settings from defaults, an optional YAML file
// named by CONFIG_FILE, and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// maxPublicPlaylistLimit caps the public listing; operators may only lower it.
const maxPublicPlaylistLimit = 10

type Config struct {
	Port                string        `yaml:"port"`
	CatalogPath         string        `yaml:"catalog_path"`
	StoreBackend        string        `yaml:"store_backend"`
	DatabaseURL         string        `yaml:"database_url"`
	BadgerPath          string        `yaml:"badger_path"`
	RedisURL            string        `yaml:"redis_url"`
	SearchCacheTTL      time.Duration `yaml:"search_cache_ttl"`
	SearchThreshold     float64       `yaml:"search_threshold"`
	MaxPlaylistsPerUser int           `yaml:"max_playlists_per_user"`
	PublicPlaylistLimit int           `yaml:"public_playlist_limit"`
	JWTSecret           string        `yaml:"jwt_secret"`
	LogLevel            string        `yaml:"log_level"`
	LogFormat           string        `yaml:"log_format"`
}

func Default() Config {
	return Config{
		Port:                "3002",
		CatalogPath:         "data/tracks.json",
		StoreBackend:        BackendMemory,
		BadgerPath:          "data/badger",
		SearchCacheTTL:      5 * time.Minute,
		SearchThreshold:     0.3,
		MaxPlaylistsPerUser: 20,
		PublicPlaylistLimit: 10,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

func Load() (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.CatalogPath = getenv("CATALOG_PATH", cfg.CatalogPath)
	cfg.StoreBackend = strings.ToLower(getenv("STORE_BACKEND", cfg.StoreBackend))
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.BadgerPath = getenv("BADGER_PATH", cfg.BadgerPath)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.SearchCacheTTL = getenvDuration("SEARCH_CACHE_TTL", cfg.SearchCacheTTL)
	cfg.SearchThreshold = getenvFloat("SEARCH_THRESHOLD", cfg.SearchThreshold)
	cfg.MaxPlaylistsPerUser = getenvInt("MAX_PLAYLISTS_PER_USER", cfg.MaxPlaylistsPerUser)
	cfg.PublicPlaylistLimit = getenvInt("PUBLIC_PLAYLIST_LIMIT", cfg.PublicPlaylistLimit)
	cfg.JWTSecret = getenv("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("playlist-hub: JWT_SECRET is empty, cannot start without token validation")
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendBadger:
		if c.BadgerPath == "" {
			return errors.New("playlist-hub: BADGER_PATH is required for the badger backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("playlist-hub: DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("playlist-hub: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.PublicPlaylistLimit < 1 || c.PublicPlaylistLimit > maxPublicPlaylistLimit {
		return fmt.Errorf("playlist-hub: PUBLIC_PLAYLIST_LIMIT must be between 1 and %d, got %d", maxPublicPlaylistLimit, c.PublicPlaylistLimit)
	}
	if c.SearchThreshold <= 0 || c.SearchThreshold >= 1 {
		return fmt.Errorf("playlist-hub: SEARCH_THRESHOLD must be between 0 and 1, got %v", c.SearchThreshold)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) float64 {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
