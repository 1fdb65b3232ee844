// Package config centralizes how Pokedex reads its settings and exposes them
// as strongly typed Go values. Sources, lowest precedence first: built-in
// defaults, an optional YAML file named by POKEDEX_CONFIG, a .env file in the
// working directory, and the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents runtime configuration for the server, the worker and the
// CLI. The yaml tags name the keys accepted in the optional config file.
type Config struct {
	Address        string `yaml:"address"`
	DataFile       string `yaml:"data_file"`
	StoreDriver    string `yaml:"store_driver"`
	DatabaseURL    string `yaml:"database_url"`
	ImageDir       string `yaml:"image_dir"`
	FrontendOrigin string `yaml:"frontend_origin"`

	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`

	CreateRateLimit  int           `yaml:"create_rate_limit"`
	CreateRateWindow time.Duration `yaml:"create_rate_window"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	S3Endpoint  string        `yaml:"s3_endpoint"`
	S3AccessKey string        `yaml:"s3_access_key"`
	S3SecretKey string        `yaml:"s3_secret_key"`
	S3UseSSL    bool          `yaml:"s3_use_ssl"`
	S3Region    string        `yaml:"s3_region"`
	ImageBucket string        `yaml:"image_bucket"`
	ImageURLTTL time.Duration `yaml:"image_url_ttl"`

	ProcessingPool int `yaml:"workers"`

	APIBaseURL    string        `yaml:"api_base_url"`
	ClientLatency time.Duration `yaml:"client_latency"`
}

const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

const (
	defaultAddress         = ":8000"
	defaultDataFile        = "data/pokemon.json"
	defaultImageDir        = "public/images"
	defaultFrontendOrigin  = "*"
	defaultPageSize        = 10
	defaultMaxPageSize     = 100
	defaultCreateRateLimit = 30
	defaultCreateWindow    = time.Minute
	defaultCacheTTL        = time.Minute
	defaultS3Region        = "us-east-1"
	defaultImageBucket     = "pokedex-images"
	defaultImageURLTTL     = 15 * time.Minute
	defaultWorkerCount     = 2
	defaultAPIBaseURL      = "http://localhost:8000"
	defaultClientLatency   = 500 * time.Millisecond
)

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		Address:          defaultAddress,
		DataFile:         defaultDataFile,
		StoreDriver:      StoreDriverFile,
		ImageDir:         defaultImageDir,
		FrontendOrigin:   defaultFrontendOrigin,
		DefaultPageSize:  defaultPageSize,
		MaxPageSize:      defaultMaxPageSize,
		CreateRateLimit:  defaultCreateRateLimit,
		CreateRateWindow: defaultCreateWindow,
		CacheTTL:         defaultCacheTTL,
		S3Region:         defaultS3Region,
		ImageBucket:      defaultImageBucket,
		ImageURLTTL:      defaultImageURLTTL,
		ProcessingPool:   defaultWorkerCount,
		APIBaseURL:       defaultAPIBaseURL,
		ClientLatency:    defaultClientLatency,
	}
}

// Load reads configuration from the optional file and environment variables,
// falling back to defaults.
func Load() (*Config, error) {
	loadDotEnv(".env")
	cfg := Defaults()
	if path := readEnv("POKEDEX_CONFIG", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Address = readEnv("POKEDEX_ADDRESS", cfg.Address)
	cfg.DataFile = readEnv("POKEDEX_DATA_FILE", cfg.DataFile)
	cfg.StoreDriver = readEnv("POKEDEX_STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseURL = readEnv("POKEDEX_DATABASE_URL", cfg.DatabaseURL)
	cfg.ImageDir = readEnv("POKEDEX_IMAGE_DIR", cfg.ImageDir)
	cfg.FrontendOrigin = readEnv("POKEDEX_FRONTEND_ORIGIN", cfg.FrontendOrigin)
	cfg.DefaultPageSize = parseInt("POKEDEX_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = parseInt("POKEDEX_MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.CreateRateLimit = parseInt("POKEDEX_CREATE_RATE_LIMIT", cfg.CreateRateLimit)
	cfg.CreateRateWindow = parseDuration("POKEDEX_CREATE_RATE_WINDOW", cfg.CreateRateWindow)
	cfg.RedisAddr = readEnv("POKEDEX_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = readEnv("POKEDEX_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = parseInt("POKEDEX_REDIS_DB", cfg.RedisDB)
	cfg.CacheTTL = parseDuration("POKEDEX_CACHE_TTL", cfg.CacheTTL)
	cfg.S3Endpoint = readEnv("POKEDEX_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKey = readEnv("POKEDEX_S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = readEnv("POKEDEX_S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3UseSSL = parseBool("POKEDEX_S3_USE_SSL", cfg.S3UseSSL)
	cfg.S3Region = readEnv("POKEDEX_S3_REGION", cfg.S3Region)
	cfg.ImageBucket = readEnv("POKEDEX_IMAGE_BUCKET", cfg.ImageBucket)
	cfg.ImageURLTTL = parseDuration("POKEDEX_IMAGE_URL_TTL", cfg.ImageURLTTL)
	cfg.ProcessingPool = parseInt("POKEDEX_WORKERS", cfg.ProcessingPool)
	cfg.APIBaseURL = readEnv("POKEDEX_API_URL", cfg.APIBaseURL)
	cfg.ClientLatency = parseDuration("POKEDEX_CLIENT_LATENCY", cfg.ClientLatency)
}

func (c *Config) normalize() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreDriverFile, StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store driver %q requires POKEDEX_DATABASE_URL", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = defaultPageSize
	}
	if c.MaxPageSize < c.DefaultPageSize {
		c.MaxPageSize = c.DefaultPageSize
	}
	if c.ProcessingPool <= 0 {
		c.ProcessingPool = defaultWorkerCount
	}
	if c.CreateRateWindow <= 0 {
		c.CreateRateWindow = defaultCreateWindow
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.ImageURLTTL <= 0 {
		c.ImageURLTTL = defaultImageURLTTL
	}
	if c.ClientLatency < 0 {
		c.ClientLatency = 0
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return nil
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// ObjectStoreEnabled reports whether an S3-compatible endpoint is configured.
func (c *Config) ObjectStoreEnabled() bool { return c.S3Endpoint != "" }

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "5m" or "500ms".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

// loadDotEnv sets variables from a KEY=VALUE file without overriding ones
// already present in the environment.
func loadDotEnv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, strings.Trim(strings.TrimSpace(val), `"`))
	}
}
