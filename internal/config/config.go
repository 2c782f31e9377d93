package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64

	OTLPEndpoint string

	PDF       PDFConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Render    RenderConfig
}

type PDFConfig struct {
	Engine             string
	ChromiumPath       string
	MaxConcurrent      int64
	TimeoutSeconds     int
	BreakerMaxFailures uint32
	BreakerOpenSeconds int
}

type CacheConfig struct {
	Driver     string
	TTLSeconds int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled     bool
	RenderRate  float64
	RenderBurst int
}

type RenderConfig struct {
	// SafeFallback renders placeholder data instead of failing validation.
	SafeFallback bool
	ConfigPath   string
}

const (
	PDFEngineChromium = "chromium"
	PDFEngineMaroto   = "maroto"

	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "facture"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		NodeID:       getenvInt64("SNOWFLAKE_NODE_ID", 1),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		PDF: PDFConfig{
			Engine:             normalizeEngine(getenv("PDF_ENGINE", PDFEngineChromium)),
			ChromiumPath:       strings.TrimSpace(getenv("PDF_CHROMIUM_PATH", "")),
			MaxConcurrent:      getenvInt64("PDF_MAX_CONCURRENT", 4),
			TimeoutSeconds:     getenvInt("PDF_TIMEOUT_SECONDS", 30),
			BreakerMaxFailures: uint32(getenvInt("PDF_BREAKER_MAX_FAILURES", 3)),
			BreakerOpenSeconds: getenvInt("PDF_BREAKER_OPEN_SECONDS", 30),
		},
		Cache: CacheConfig{
			Driver:     normalizeCacheDriver(getenv("CACHE_DRIVER", CacheDriverMemory)),
			TTLSeconds: getenvInt("CACHE_TTL_SECONDS", 300),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", false),
			RenderRate:  getenvFloat("RATE_LIMIT_RENDER_RATE", 5),
			RenderBurst: getenvInt("RATE_LIMIT_RENDER_BURST", 20),
		},
		Render: RenderConfig{
			SafeFallback: getenvBool("RENDER_SAFE_FALLBACK", false),
			ConfigPath:   strings.TrimSpace(getenv("RENDER_CONFIG_PATH", "")),
		},
	}

	if cfg.PDF.MaxConcurrent <= 0 {
		cfg.PDF.MaxConcurrent = 1
	}
	if cfg.PDF.TimeoutSeconds <= 0 {
		cfg.PDF.TimeoutSeconds = 30
	}
	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func normalizeEngine(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case PDFEngineMaroto:
		return PDFEngineMaroto
	default:
		return PDFEngineChromium
	}
}

func normalizeCacheDriver(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case CacheDriverNone, CacheDriverRedis:
		return value
	default:
		return CacheDriverMemory
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	return int(getenvInt64(key, int64(def)))
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
