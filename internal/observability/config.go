package observability

import (
	"os"
	"strings"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/spf13/cast"
)

// Config is the observability view of the process configuration. Values come
// from config.Config and may be overridden by the standard OTEL_* variables.
type Config struct {
	Service ServiceInfo
	Log     LogConfig
	Otel    OtelConfig
}

type ServiceInfo struct {
	Name        string
	Environment string
	Version     string
}

type LogConfig struct {
	Level  string
	Format string
}

type OtelConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

const (
	defaultServiceName   = "facture"
	defaultSamplingRatio = 0.1
)

// LoadConfig derives the observability settings. Export is on by default only
// in production so local renders do not try to reach a collector.
func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = defaultServiceName
	}

	protocol := lookup("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	if traces := lookup("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", ""); traces != "" {
		protocol = traces
	}

	return Config{
		Service: ServiceInfo{
			Name:        name,
			Environment: lookup("DEPLOYMENT_ENV", strings.TrimSpace(cfg.Environment)),
			Version:     lookup("SERVICE_VERSION", strings.TrimSpace(cfg.AppVersion)),
		},
		Log: LogConfig{
			Level:  strings.ToLower(lookup("LOG_LEVEL", "info")),
			Format: strings.ToLower(lookup("LOG_FORMAT", "json")),
		},
		Otel: OtelConfig{
			Enabled:       lookupBool("OTEL_ENABLED", cfg.IsProduction()),
			Endpoint:      lookup("OTEL_EXPORTER_OTLP_ENDPOINT", strings.TrimSpace(cfg.OTLPEndpoint)),
			Protocol:      strings.ToLower(protocol),
			SamplingRatio: clampRatio(lookupFloat("OTEL_SAMPLING_RATIO", defaultSamplingRatio)),
		},
	}
}

// Debug is true for debug logging or any non-production style environment.
func (c Config) Debug() bool {
	if c.Log.Level == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Service.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func lookup(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func lookupBool(key string, def bool) bool {
	raw := lookup(key, "")
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return def
	}
	return v
}

func lookupFloat(key string, def float64) float64 {
	raw := lookup(key, "")
	if raw == "" {
		return def
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return def
	}
	return v
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
