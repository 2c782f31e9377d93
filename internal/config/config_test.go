package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PDF_ENGINE", "")
	t.Setenv("CACHE_DRIVER", "")
	t.Setenv("RENDER_SAFE_FALLBACK", "")

	cfg := Load()
	assert.Equal(t, PDFEngineChromium, cfg.PDF.Engine)
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.False(t, cfg.Render.SafeFallback)
	assert.Positive(t, cfg.PDF.MaxConcurrent)
	assert.Positive(t, cfg.PDF.TimeoutSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PDF_ENGINE", " Maroto ")
	t.Setenv("PDF_MAX_CONCURRENT", "-2")
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_ENABLED", "yes")
	t.Setenv("RATE_LIMIT_RENDER_RATE", "0.5")
	t.Setenv("RENDER_SAFE_FALLBACK", "on")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()
	assert.Equal(t, PDFEngineMaroto, cfg.PDF.Engine)
	assert.Equal(t, int64(1), cfg.PDF.MaxConcurrent)
	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 0.5, cfg.RateLimit.RenderRate)
	assert.True(t, cfg.Render.SafeFallback)
	assert.True(t, cfg.IsProduction())
}

func TestGetenvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("FACTURE_TEST_BOOL", "maybe")
	assert.True(t, getenvBool("FACTURE_TEST_BOOL", true))
}

func TestRenderingConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg := Config{Render: RenderConfig{ConfigPath: filepath.Join(t.TempDir(), "render.yml")}}

	holder, err := NewRenderingConfigHolder(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultRenderingConfig(), holder.Get())
}

func TestRenderingConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yml")
	require.NoError(t, os.WriteFile(path, []byte(`render:
  style:
    primaryColor: "#AA3300"
    fontFamily: Open Sans
  email:
    subject: "Votre facture {number}"
  footer:
    notes: Merci pour votre confiance.
`), 0o600))

	holder, err := NewRenderingConfigHolder(Config{Render: RenderConfig{ConfigPath: path}}, nil)
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "#AA3300", got.Style.PrimaryColor)
	assert.Equal(t, "Open Sans", got.Style.FontFamily)
	assert.Equal(t, "Votre facture {number}", got.Email.Subject)
	assert.Equal(t, "Merci pour votre confiance.", got.Footer.Notes)
}

func TestRenderingConfigRejectsInvalidColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  style:\n    primaryColor: red\n"), 0o600))

	_, err := NewRenderingConfigHolder(Config{Render: RenderConfig{ConfigPath: path}}, nil)
	assert.Error(t, err)
}
